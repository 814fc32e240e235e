package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/models"
)

// ticketRepository is the PostgreSQL-backed implementation of
// [TicketRepository]. Ticket numbers are assigned by the database from a
// dedicated sequence, so the repository never generates them.
type ticketRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTicketRepository constructs a [TicketRepository] backed by the provided
// database connection and logger.
func NewTicketRepository(db *DB, logger *logger.Logger) TicketRepository {
	logger.Debug().Msg("creating ticket repository")
	return &ticketRepository{
		db:     db,
		logger: logger,
	}
}

// CreateTicket persists a new ticket and returns the stored record with the
// server-assigned number and timestamps.
func (r *ticketRepository) CreateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createTicket,
		ticket.ID, ticket.Title, ticket.Description, ticket.Category,
		ticket.Status, ticket.Priority, ticket.CreatorID, ticket.AssigneeID)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*ticketRepository.CreateTicket").Msg("error: row is nil")
		return models.Ticket{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var saved models.Ticket
	if err := scanTicket(row, &saved); err != nil {
		log.Err(err).Str("func", "*ticketRepository.CreateTicket").Msg("error: scanning error")
		return models.Ticket{}, err
	}

	return saved, nil
}

// GetTicketByID retrieves a single ticket. Returns [ErrTicketNotFound] when
// the result set is empty.
func (r *ticketRepository) GetTicketByID(ctx context.Context, id string) (models.Ticket, error) {
	log := logger.FromContext(ctx)

	var found models.Ticket
	row := r.db.QueryRowContext(ctx, getTicketByID, id)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*ticketRepository.GetTicketByID").Msg("error: row is nil")
		return models.Ticket{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := scanTicket(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Ticket{}, ErrTicketNotFound
		}
		log.Err(err).Str("func", "*ticketRepository.GetTicketByID").Msg("error: scanning error")
		return models.Ticket{}, err
	}

	return found, nil
}

// GetAllTickets returns tickets matching the filter, newest first. A zero
// filter returns the whole collection.
func (r *ticketRepository) GetAllTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildTicketListQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*ticketRepository.GetAllTickets").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*ticketRepository.GetAllTickets").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var ticket models.Ticket
		if err := rows.Scan(
			&ticket.ID, &ticket.Number, &ticket.Title, &ticket.Description, &ticket.Category,
			&ticket.Status, &ticket.Priority, &ticket.CreatorID, &ticket.AssigneeID,
			&ticket.CreatedAt, &ticket.UpdatedAt, &ticket.ResolvedAt, &ticket.ClosedAt,
		); err != nil {
			log.Err(err).Str("func", "*ticketRepository.GetAllTickets").Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tickets, nil
}

// UpdateTicket overwrites all mutable ticket fields and returns the stored
// record. Returns [ErrTicketNotFound] when no row matches ticket.ID.
func (r *ticketRepository) UpdateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	log := logger.FromContext(ctx)

	var updated models.Ticket
	row := r.db.QueryRowContext(ctx, updateTicket,
		ticket.ID, ticket.Title, ticket.Description, ticket.Category,
		ticket.Status, ticket.Priority, ticket.AssigneeID, ticket.ResolvedAt, ticket.ClosedAt)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*ticketRepository.UpdateTicket").Msg("error: row is nil")
		return models.Ticket{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := scanTicket(row, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Ticket{}, ErrTicketNotFound
		}
		log.Err(err).Str("func", "*ticketRepository.UpdateTicket").Msg("error: scanning error")
		return models.Ticket{}, err
	}

	return updated, nil
}

// DeleteTicket removes the ticket row; comments go with it via the foreign
// key cascade. Returns [ErrTicketNotFound] when no row matches.
func (r *ticketRepository) DeleteTicket(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteTicket, id)
	if err != nil {
		log.Err(err).Str("func", "*ticketRepository.DeleteTicket").Msg("error executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrTicketNotFound
	}

	return nil
}

func scanTicket(row *sql.Row, ticket *models.Ticket) error {
	return row.Scan(
		&ticket.ID, &ticket.Number, &ticket.Title, &ticket.Description, &ticket.Category,
		&ticket.Status, &ticket.Priority, &ticket.CreatorID, &ticket.AssigneeID,
		&ticket.CreatedAt, &ticket.UpdatedAt, &ticket.ResolvedAt, &ticket.ClosedAt,
	)
}
