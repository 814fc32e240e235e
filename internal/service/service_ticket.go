package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/notify"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/internal/utils"
	"github.com/fixit-helpdesk/fixit/internal/validators"
	"github.com/fixit-helpdesk/fixit/models"
)

// ticketService is the concrete implementation of TicketService. It owns
// the ticket lifecycle rules: status transitions, technician-only
// assignment, and the resolved/closed timestamps. Lifecycle changes fan out
// as fire-and-forget notifications; a dead gateway never fails a mutation.
type ticketService struct {
	ticketRepository  store.TicketRepository
	commentRepository store.CommentRepository
	userRepository    store.UserRepository

	notifier  notify.Notifier
	validator validators.Validator
	uuid      *utils.UUIDGenerator

	logger *logger.Logger
}

// NewTicketService constructs a TicketService wired to the given
// repositories and notifier.
func NewTicketService(storages *store.Storages, notifier notify.Notifier, logger *logger.Logger) TicketService {
	return &ticketService{
		ticketRepository:  storages.TicketRepository,
		commentRepository: storages.CommentRepository,
		userRepository:    storages.UserRepository,
		notifier:          notifier,
		validator:         validators.NewTicketValidator(),
		uuid:              utils.NewUUIDGenerator(),
		logger:            logger,
	}
}

// CreateTicket opens a new ticket for creatorID. The ticket starts in the
// open status; an omitted priority defaults to medium. The sequential
// ticket number is assigned by the database.
func (t *ticketService) CreateTicket(ctx context.Context, creatorID string, req models.CreateTicketRequest) (models.Ticket, error) {
	log := logger.FromContext(ctx)

	if creatorID == "" {
		return models.Ticket{}, ErrInvalidDataProvided
	}
	if err := t.validator.Validate(ctx, req); err != nil {
		log.Err(err).Msg("invalid create ticket request")
		return models.Ticket{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	ticket := models.Ticket{
		ID:          t.uuid.Generate(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.StatusOpen,
		Priority:    priority,
		CreatorID:   creatorID,
	}

	created, err := t.ticketRepository.CreateTicket(ctx, ticket)
	if err != nil {
		log.Err(err).Msg("ticket creation ended with error")
		return models.Ticket{}, fmt.Errorf("ticket creation ended with error: %w", err)
	}

	log.Info().
		Str("id", created.ID).
		Str("number", created.Number).
		Str("priority", string(created.Priority)).
		Msg("ticket created")

	t.notifyUser(ctx, created.CreatorID, fmt.Sprintf("Ticket %s created", created.Number),
		fmt.Sprintf("Your ticket %q was registered as %s.", created.Title, created.Number))

	return created, nil
}

// GetTicket returns one ticket by ID.
func (t *ticketService) GetTicket(ctx context.Context, id string) (models.Ticket, error) {
	if id == "" {
		return models.Ticket{}, ErrInvalidDataProvided
	}

	return t.ticketRepository.GetTicketByID(ctx, id)
}

// GetAllTickets returns tickets matching the filter, newest first.
func (t *ticketService) GetAllTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error) {
	return t.ticketRepository.GetAllTickets(ctx, filter)
}

// UpdateTicket applies the non-nil fields of req to the stored ticket.
//
// Rules enforced here:
//   - Status changes must follow the ticket lifecycle
//     (open → in_progress → resolved → closed, reopen from resolved).
//   - An assignee must hold a technician role.
//   - Entering resolved stamps ResolvedAt; entering closed stamps ClosedAt;
//     reopening clears ResolvedAt.
func (t *ticketService) UpdateTicket(ctx context.Context, id string, req models.UpdateTicketRequest) (models.Ticket, error) {
	log := logger.FromContext(ctx)

	if id == "" {
		return models.Ticket{}, ErrInvalidDataProvided
	}

	ticket, err := t.ticketRepository.GetTicketByID(ctx, id)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("ticket search failed: %w", err)
	}

	previousStatus := ticket.Status
	previousAssignee := ticket.AssigneeID

	if req.Title != nil {
		ticket.Title = *req.Title
	}
	if req.Description != nil {
		ticket.Description = *req.Description
	}
	if req.Category != nil {
		ticket.Category = *req.Category
	}
	if req.Priority != nil {
		ticket.Priority = *req.Priority
	}

	if req.AssigneeID != nil && *req.AssigneeID != previousAssignee {
		if *req.AssigneeID != "" {
			assignee, err := t.userRepository.FindUserByID(ctx, *req.AssigneeID)
			if err != nil {
				return models.Ticket{}, fmt.Errorf("assignee search failed: %w", err)
			}
			if !assignee.Role.Technician() {
				log.Error().
					Str("ticket", id).
					Str("assignee", assignee.ID).
					Str("role", string(assignee.Role)).
					Msg("assignment rejected")
				return models.Ticket{}, ErrAssigneeNotTechnician
			}
		}
		ticket.AssigneeID = *req.AssigneeID
	}

	if req.Status != nil && *req.Status != previousStatus {
		if !previousStatus.CanTransitionTo(*req.Status) {
			log.Error().
				Str("ticket", id).
				Str("from", string(previousStatus)).
				Str("to", string(*req.Status)).
				Msg("status transition rejected")
			return models.Ticket{}, ErrInvalidStatusTransition
		}
		ticket.Status = *req.Status

		now := time.Now()
		switch ticket.Status {
		case models.StatusResolved:
			ticket.ResolvedAt = &now
		case models.StatusClosed:
			ticket.ClosedAt = &now
		case models.StatusInProgress, models.StatusOpen:
			// reopened
			ticket.ResolvedAt = nil
		}
	}

	if err := t.validator.Validate(ctx, ticket); err != nil {
		log.Err(err).Str("ticket", id).Msg("invalid update ticket request")
		return models.Ticket{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	updated, err := t.ticketRepository.UpdateTicket(ctx, ticket)
	if err != nil {
		log.Err(err).Str("ticket", id).Msg("ticket update ended with error")
		return models.Ticket{}, fmt.Errorf("ticket update ended with error: %w", err)
	}

	if updated.Status != previousStatus {
		t.notifyUser(ctx, updated.CreatorID, fmt.Sprintf("Ticket %s is now %s", updated.Number, updated.Status),
			fmt.Sprintf("Ticket %q moved from %s to %s.", updated.Title, previousStatus, updated.Status))
	}
	if updated.AssigneeID != previousAssignee && updated.AssigneeID != "" {
		t.notifyUser(ctx, updated.AssigneeID, fmt.Sprintf("Ticket %s assigned to you", updated.Number),
			fmt.Sprintf("You were assigned ticket %q (%s priority).", updated.Title, updated.Priority))
	}

	return updated, nil
}

// DeleteTicket removes the ticket and its comment thread.
func (t *ticketService) DeleteTicket(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if id == "" {
		return ErrInvalidDataProvided
	}

	if err := t.ticketRepository.DeleteTicket(ctx, id); err != nil {
		log.Err(err).Str("ticket", id).Msg("ticket deletion ended with error")
		return fmt.Errorf("ticket deletion ended with error: %w", err)
	}

	log.Info().Str("ticket", id).Msg("ticket deleted")
	return nil
}

// AddComment appends a comment to the ticket's thread. Public comments by
// someone other than the creator notify the creator.
func (t *ticketService) AddComment(ctx context.Context, ticketID, authorID string, req models.AddCommentRequest) (models.Comment, error) {
	log := logger.FromContext(ctx)

	if ticketID == "" || authorID == "" {
		return models.Comment{}, ErrInvalidDataProvided
	}
	if err := t.validator.Validate(ctx, req); err != nil {
		return models.Comment{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	ticket, err := t.ticketRepository.GetTicketByID(ctx, ticketID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("ticket search failed: %w", err)
	}

	comment := models.Comment{
		ID:       t.uuid.Generate(),
		TicketID: ticket.ID,
		AuthorID: authorID,
		Body:     req.Body,
		Internal: req.Internal,
	}

	saved, err := t.commentRepository.AddComment(ctx, comment)
	if err != nil {
		log.Err(err).Str("ticket", ticketID).Msg("adding comment ended with error")
		return models.Comment{}, fmt.Errorf("adding comment ended with error: %w", err)
	}

	if !saved.Internal && authorID != ticket.CreatorID {
		t.notifyUser(ctx, ticket.CreatorID, fmt.Sprintf("New comment on ticket %s", ticket.Number),
			fmt.Sprintf("Ticket %q received a new comment.", ticket.Title))
	}

	return saved, nil
}

// GetTicketComments returns the ticket's thread in chronological order.
func (t *ticketService) GetTicketComments(ctx context.Context, ticketID string, includeInternal bool) ([]models.Comment, error) {
	if ticketID == "" {
		return nil, ErrInvalidDataProvided
	}

	if _, err := t.ticketRepository.GetTicketByID(ctx, ticketID); err != nil {
		return nil, fmt.Errorf("ticket search failed: %w", err)
	}

	return t.commentRepository.GetTicketComments(ctx, ticketID, includeInternal)
}

// notifyUser resolves the account's email and enqueues an email
// notification. Lookup failures are logged and swallowed.
func (t *ticketService) notifyUser(ctx context.Context, userID, subject, body string) {
	log := logger.FromContext(ctx)

	user, err := t.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Str("id", userID).Msg("notification recipient lookup failed")
		return
	}

	t.notifier.Enqueue(notify.Notification{
		Channel:   notify.ChannelEmail,
		Recipient: user.Email,
		Subject:   subject,
		Body:      body,
	})
}
