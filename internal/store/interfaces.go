package store

import (
	"context"

	"github.com/fixit-helpdesk/fixit/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository is the persistence contract for FixIT accounts.
// The database copy is authoritative; agent replicas are derived from it.
type UserRepository interface {
	// CreateUser persists a new account and returns the canonical database
	// representation with server-assigned timestamps.
	// Returns [ErrEmailAlreadyExists] on a duplicate email.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail retrieves the account with the given email.
	// Returns [ErrNoUserWasFound] when no account matches.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByID retrieves the account with the given ID.
	// Returns [ErrNoUserWasFound] when no account matches.
	FindUserByID(ctx context.Context, id string) (models.User, error)

	// GetAllUsers returns every account ordered by creation time.
	GetAllUsers(ctx context.Context) ([]models.User, error)

	// UpdateUser overwrites the mutable fields (name, role, active) of the
	// account identified by user.ID and returns the stored record.
	// Returns [ErrNoUserWasFound] when the account does not exist.
	UpdateUser(ctx context.Context, user models.User) (models.User, error)

	// DeleteUser removes the account. Returns [ErrNoUserWasFound] when the
	// account does not exist.
	DeleteUser(ctx context.Context, id string) error
}

// TicketRepository is the persistence contract for support tickets.
type TicketRepository interface {
	// CreateTicket persists a new ticket and returns the canonical record
	// with the server-assigned sequential number and timestamps.
	CreateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error)

	// GetTicketByID retrieves one ticket.
	// Returns [ErrTicketNotFound] when no ticket matches.
	GetTicketByID(ctx context.Context, id string) (models.Ticket, error)

	// GetAllTickets returns tickets matching the filter, newest first.
	// Zero-valued filter fields are ignored.
	GetAllTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error)

	// UpdateTicket overwrites the mutable fields of the ticket identified
	// by ticket.ID and returns the stored record.
	// Returns [ErrTicketNotFound] when the ticket does not exist.
	UpdateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error)

	// DeleteTicket removes the ticket and its comments.
	// Returns [ErrTicketNotFound] when the ticket does not exist.
	DeleteTicket(ctx context.Context, id string) error
}

// CommentRepository is the persistence contract for ticket comments.
type CommentRepository interface {
	// AddComment persists a comment and returns the canonical record.
	AddComment(ctx context.Context, comment models.Comment) (models.Comment, error)

	// GetTicketComments returns a ticket's comments in creation order.
	// When includeInternal is false, technician-only comments are omitted.
	GetTicketComments(ctx context.Context, ticketID string, includeInternal bool) ([]models.Comment, error)
}
