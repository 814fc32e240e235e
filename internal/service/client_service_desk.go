package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fixit-helpdesk/fixit/internal/adapter"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/models"
)

// deskService is the agent's mutation surface. Every write goes to the
// server first; only after the server accepts it is the matching sync
// event published through the relay, so other agent sessions (and this
// one's own subscribers) refresh against state that actually exists.
type deskService struct {
	adapter    adapter.ServerAdapter
	relay      EventRelay
	tombstones TombstoneService
	logger     *logger.Logger
}

// NewDeskService wires the mutation operations over the server adapter,
// the event relay, and the tombstone service.
func NewDeskService(serverAdapter adapter.ServerAdapter, relay EventRelay, tombstones TombstoneService, logger *logger.Logger) DeskService {
	return &deskService{
		adapter:    serverAdapter,
		relay:      relay,
		tombstones: tombstones,
		logger:     logger,
	}
}

func (d *deskService) CreateTicket(ctx context.Context, req models.CreateTicketRequest) (models.Ticket, error) {
	ticket, err := d.adapter.CreateTicket(ctx, req)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("create ticket: %w", err)
	}

	d.publish(models.EventTicketCreated, ticket)
	return ticket, nil
}

func (d *deskService) UpdateTicket(ctx context.Context, ticketID string, req models.UpdateTicketRequest) (models.Ticket, error) {
	ticket, err := d.adapter.UpdateTicket(ctx, ticketID, req)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("update ticket %s: %w", ticketID, err)
	}

	d.publish(models.EventTicketUpdated, ticket)
	return ticket, nil
}

// AddComment attaches a comment to a ticket. A comment mutates the ticket
// from the point of view of every other session, so it is announced as a
// ticket update.
func (d *deskService) AddComment(ctx context.Context, ticketID string, req models.AddCommentRequest) (models.Comment, error) {
	comment, err := d.adapter.AddComment(ctx, ticketID, req)
	if err != nil {
		return models.Comment{}, fmt.Errorf("add comment to ticket %s: %w", ticketID, err)
	}

	d.publish(models.EventTicketUpdated, comment)
	return comment, nil
}

// DeleteUser removes the account on the server, tombstones it locally so
// a racing poll cannot resurrect it, and announces the deletion. The
// event payload is the full user record: subscribers match it against
// their own session to force a logout.
func (d *deskService) DeleteUser(ctx context.Context, user models.User) error {
	if err := d.adapter.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user %s: %w", user.ID, err)
	}

	if err := d.tombstones.MarkDeleted(user); err != nil {
		d.logger.Error().Err(err).Str("user_id", user.ID).
			Msg("failed to tombstone deleted user")
	}

	d.publish(models.EventUserDeleted, user)
	return nil
}

// publish serializes payload and sends the event. The mutation already
// succeeded on the server by the time publish runs, so failures here are
// logged and swallowed; the next poll converges anyway.
func (d *deskService) publish(eventType models.SyncEventType, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error().Err(err).Str("type", string(eventType)).
			Msg("failed to serialize sync event payload")
		return
	}

	result := d.relay.SendSyncEvent(d.relay.CreateSyncEvent(eventType, data))
	if !result.Success {
		d.logger.Warn().Str("type", string(eventType)).Str("error", result.Error).
			Msg("sync event was not published")
	}
}
