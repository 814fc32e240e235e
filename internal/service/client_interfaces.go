package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fixit-helpdesk/fixit/models"
)

// EventRelay publishes local mutations as sync events and delivers events
// produced by other agent sessions.
//
// Delivery is asymmetric on purpose. Same-process subscribers receive
// every published event, including the publisher's own: the UI refreshing
// after its own mutation relies on that. The cross-process path (a file
// watch on the shared event log) filters out events carrying the local
// device ID, because the local mutation already took effect here.
type EventRelay interface {
	// DeviceID returns the relay's stable device identifier.
	DeviceID() string

	// CreateSyncEvent builds an event stamped with the current time, the
	// local device ID, and the next per-device sequence number. It never
	// fails.
	CreateSyncEvent(eventType models.SyncEventType, data json.RawMessage) models.SyncEvent

	// SendSyncEvent appends the event to the shared log and notifies
	// same-process subscribers. Storage and serialization failures are
	// folded into a failed result; the call never panics.
	SendSyncEvent(event models.SyncEvent) models.SyncResult

	// OnSyncEvent registers a callback for both delivery paths and
	// returns its unsubscribe function.
	OnSyncEvent(callback func(models.SyncEvent)) func()

	// Watch starts the cross-process file watch. It returns immediately;
	// delivery runs in a background goroutine until ctx is cancelled or
	// Close is called. Watching is unavailable (and skipped with a log
	// line) when the backend has no filesystem path.
	Watch(ctx context.Context) error

	// Close stops the file watch.
	Close() error
}

// TombstoneService tracks users deleted by this client so a poll racing
// the delete cannot resurrect them in the local replica.
type TombstoneService interface {
	// MarkDeleted records the user in the in-memory set and appends the
	// persisted tombstone record.
	MarkDeleted(user models.User) error

	// IsDeleted reports whether the user ID is currently tombstoned.
	IsDeleted(id string) bool

	// Clear empties the in-memory set. The persisted list is untouched;
	// it is pruned by age in the maintenance pass.
	Clear()

	// Run clears the in-memory set on a fixed interval until Close is
	// called. Intended to run as a background worker.
	Run()

	// Close stops the clear timer.
	Close()
}

// DeskService is the agent's mutation surface: every operation writes to
// the server through the adapter and, on success, publishes the matching
// sync event through the relay.
type DeskService interface {
	// CreateTicket opens a ticket and publishes TICKET_CREATED.
	CreateTicket(ctx context.Context, req models.CreateTicketRequest) (models.Ticket, error)

	// UpdateTicket applies a partial update and publishes TICKET_UPDATED.
	UpdateTicket(ctx context.Context, ticketID string, req models.UpdateTicketRequest) (models.Ticket, error)

	// AddComment attaches a comment and publishes TICKET_UPDATED for the
	// parent ticket.
	AddComment(ctx context.Context, ticketID string, req models.AddCommentRequest) (models.Comment, error)

	// DeleteUser removes the account on the server, records the local
	// tombstone, and publishes USER_DELETED carrying the user record.
	DeleteUser(ctx context.Context, user models.User) error
}

// SessionService owns the agent's authenticated session: login, restore
// across restarts, and validation against persisted tombstones.
type SessionService interface {
	// Login authenticates with email and password, persists the session,
	// and primes the server adapter with the bearer token.
	Login(ctx context.Context, email, password string) (models.Session, error)

	// RequestOTP asks the server to deliver a one-time login code.
	RequestOTP(ctx context.Context, email string) error

	// LoginWithOTP exchanges a one-time code for a session.
	LoginWithOTP(ctx context.Context, email, code string) (models.Session, error)

	// Restore loads the persisted session, rejects it when the account
	// appears in the persisted tombstone list, and primes the adapter
	// token on success. Returns [ErrSessionInvalidated] for a tombstoned
	// account and store.ErrLocalSessionNotFound when nothing is persisted.
	Restore(ctx context.Context) (models.Session, error)

	// Current returns the active session, if any.
	Current() (models.Session, bool)

	// Logout clears the active and persisted session and the adapter
	// token.
	Logout() error
}

// Reconciler pulls the server's collections and swaps the local replica
// when they differ.
type Reconciler interface {
	// Reconcile runs one reconciliation pass. Adapter failures are logged
	// and leave the previous replica in place; the method never returns
	// an error for them.
	Reconcile(ctx context.Context)
}

// SyncJob drives periodic reconciliation while the agent believes it is
// online.
type SyncJob interface {
	// StartAutoSync launches the polling loop, replacing any previous
	// one. A non-positive interval falls back to 3 seconds. The callback
	// runs only while the online flag is set; its errors are logged and
	// swallowed, and a tick arriving while the previous callback is still
	// in flight is skipped.
	StartAutoSync(callback func(context.Context) error, interval time.Duration)

	// StopAutoSync stops the polling loop and waits for it to exit. Safe
	// to call when the job is not running.
	StopAutoSync()

	// SetOnline flips the online flag. Transitioning from offline to
	// online publishes one FORCE_SYNC event and triggers one immediate
	// sync.
	SetOnline(online bool)

	// Online reports the current flag.
	Online() bool
}
