// Package adapter provides transport-layer abstractions for communicating
// with the FixIT server.
//
// The primary abstraction is [ServerAdapter], which decouples the agent's
// service layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/fixit-helpdesk/fixit/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the FixIT
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It should be called immediately
	// after a successful Login or VerifyOTP.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Login authenticates with email and password. On success it stores the
	// returned bearer token via SetToken and returns the server-side user
	// record together with the token.
	Login(ctx context.Context, email, password string) (models.LoginResponse, error)

	// RequestOTP asks the server to deliver a one-time login code to the
	// given email. The server always accepts the request, so a nil error does
	// not confirm the address has an account.
	RequestOTP(ctx context.Context, email string) error

	// VerifyOTP exchanges a one-time code for a bearer token. On success the
	// token is stored via SetToken.
	VerifyOTP(ctx context.Context, email, code string) (models.LoginResponse, error)

	// Health probes the server's health endpoint. A nil error means the
	// server is reachable; the sync job uses it to drive the online flag.
	Health(ctx context.Context) error

	// GetAllUsers fetches the full user collection for reconciliation.
	GetAllUsers(ctx context.Context) ([]models.User, error)

	// GetAllTickets fetches tickets matching the filter; a zero filter
	// fetches the full collection for reconciliation.
	GetAllTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, error)

	// GetTicket fetches a single ticket by ID. Returns [ErrNotFound]
	// (wrapped) if the ticket does not exist.
	GetTicket(ctx context.Context, ticketID string) (models.Ticket, error)

	// CreateTicket opens a ticket on behalf of the authenticated user.
	CreateTicket(ctx context.Context, req models.CreateTicketRequest) (models.Ticket, error)

	// UpdateTicket applies a partial update to a ticket. Returns
	// [ErrConflict] (wrapped) when the server rejects the status transition.
	UpdateTicket(ctx context.Context, ticketID string, req models.UpdateTicketRequest) (models.Ticket, error)

	// DeleteUser removes a user account. Requires an admin token.
	DeleteUser(ctx context.Context, userID string) error

	// AddComment attaches a comment to a ticket.
	AddComment(ctx context.Context, ticketID string, req models.AddCommentRequest) (models.Comment, error)

	// GetTicketComments fetches the comments visible to the authenticated
	// user for the given ticket.
	GetTicketComments(ctx context.Context, ticketID string) ([]models.Comment, error)
}
