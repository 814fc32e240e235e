package service

import (
	"context"

	"github.com/fixit-helpdesk/fixit/models"
)

// AuthService authenticates accounts and manages the JWT token lifecycle.
type AuthService interface {
	// Login verifies the email/password pair and returns the account.
	Login(ctx context.Context, email, password string) (models.User, error)

	// CreateToken issues a signed JWT carrying the user's ID and role.
	CreateToken(ctx context.Context, user models.User) (models.Token, error)

	// ParseToken validates a raw JWT string and returns the decoded token.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// OTPService issues and verifies short-lived one-time login codes.
// Codes live in process memory only; a server restart voids them all.
type OTPService interface {
	// Request issues a code for the account with the given email and hands
	// it to the notifier for delivery. The code itself never leaves the
	// server through the API.
	Request(ctx context.Context, email string) error

	// Verify checks a submitted code and, on success, consumes it and
	// returns the account it belongs to.
	Verify(ctx context.Context, email, code string) (models.User, error)
}

// UserService manages helpdesk accounts.
type UserService interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// TicketService manages the ticket lifecycle and comment threads.
type TicketService interface {
	CreateTicket(ctx context.Context, creatorID string, req models.CreateTicketRequest) (models.Ticket, error)
	GetTicket(ctx context.Context, id string) (models.Ticket, error)
	GetAllTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error)
	UpdateTicket(ctx context.Context, id string, req models.UpdateTicketRequest) (models.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error

	AddComment(ctx context.Context, ticketID, authorID string, req models.AddCommentRequest) (models.Comment, error)
	GetTicketComments(ctx context.Context, ticketID string, includeInternal bool) ([]models.Comment, error)
}
