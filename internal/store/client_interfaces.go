package store

import (
	"context"
	"time"

	"github.com/fixit-helpdesk/fixit/models"
)

// Backend is the byte-oriented key-value storage the agent persists its
// sync state through. The file implementation keeps one file per key in a
// shared directory, which is what lets several agent processes observe
// each other's writes; the memory implementation backs tests.
type Backend interface {
	// Get returns the value stored under key. Returns [ErrKeyNotFound]
	// when the key has never been set.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value. File
	// implementations must write atomically so concurrent readers never
	// observe a partial value.
	Set(key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error

	// Path returns the filesystem path backing key, or an empty string
	// for purely in-memory implementations. The event relay watches this
	// path for cross-process change notifications.
	Path(key string) string
}

// EventStore is the bounded append-only log of sync events shared between
// agent processes.
type EventStore interface {
	// Append adds an event to the log, evicting the oldest entries when
	// the cap is exceeded.
	Append(event models.SyncEvent) error

	// ReadAll returns the stored log, oldest first.
	ReadAll() ([]models.SyncEvent, error)

	// PruneOlderThan drops events older than maxAge and reports how many
	// were removed.
	PruneOlderThan(maxAge time.Duration) (int, error)
}

// TombstoneStore persists the deleted-user records that survive agent
// restarts.
type TombstoneStore interface {
	// Append adds a deleted-user record to the persisted list.
	Append(record models.DeletedUser) error

	// ReadAll returns the persisted records, oldest first.
	ReadAll() ([]models.DeletedUser, error)

	// PruneOlderThan drops records older than maxAge and reports how many
	// were removed.
	PruneOlderThan(maxAge time.Duration) (int, error)
}

// SessionStore persists the authenticated session between agent runs.
type SessionStore interface {
	// Save persists the session.
	Save(session models.Session) error

	// Load returns the persisted session. Returns [ErrLocalSessionNotFound]
	// when no session has been saved.
	Load() (models.Session, error)

	// Clear removes the persisted session.
	Clear() error
}

// Replica is the agent's local snapshot of the server's user and ticket
// collections. Replacement is wholesale: reconciliation swaps the full
// collection when the fetched state differs.
type Replica interface {
	// ReplaceUsers swaps the stored user collection.
	ReplaceUsers(ctx context.Context, users []models.User) error

	// ReplaceTickets swaps the stored ticket collection.
	ReplaceTickets(ctx context.Context, tickets []models.Ticket) error

	// GetAllUsers returns the stored user collection ordered by creation
	// time.
	GetAllUsers(ctx context.Context) ([]models.User, error)

	// GetAllTickets returns the stored ticket collection, newest first.
	GetAllTickets(ctx context.Context) ([]models.Ticket, error)

	// Close releases the underlying database handle.
	Close() error
}
