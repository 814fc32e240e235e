package models

import (
	"encoding/json"
	"time"
)

// SyncEventType names the mutation a SyncEvent describes.
type SyncEventType string

// Sync event types emitted on local mutations. ForceSync carries no
// payload; it asks every subscriber to run a full reconciliation pass.
const (
	EventUserCreated   SyncEventType = "USER_CREATED"
	EventUserUpdated   SyncEventType = "USER_UPDATED"
	EventUserDeleted   SyncEventType = "USER_DELETED"
	EventTicketCreated SyncEventType = "TICKET_CREATED"
	EventTicketUpdated SyncEventType = "TICKET_UPDATED"
	EventTicketDeleted SyncEventType = "TICKET_DELETED"
	EventForceSync     SyncEventType = "FORCE_SYNC"
)

// Valid reports whether t is one of the known sync event types.
func (t SyncEventType) Valid() bool {
	switch t {
	case EventUserCreated, EventUserUpdated, EventUserDeleted,
		EventTicketCreated, EventTicketUpdated, EventTicketDeleted,
		EventForceSync:
		return true
	}
	return false
}

// SyncEvent is a small immutable record describing a local mutation,
// relayed to other agent sessions so they can refresh their replicas.
//
// Events are immutable once created. DeviceID is stable for the lifetime
// of one event relay instance; Sequence increases monotonically per
// device, letting consumers discard entries they have already observed
// from that device.
type SyncEvent struct {
	// Type identifies the mutation.
	Type SyncEventType `json:"type"`

	// Data is the user or ticket snapshot the mutation produced. Kept as
	// raw JSON: subscribers that only need the signal never decode it.
	Data json.RawMessage `json:"data,omitempty"`

	// Timestamp is the creation time of the event.
	Timestamp time.Time `json:"timestamp"`

	// DeviceID identifies the relay instance that produced the event.
	DeviceID string `json:"device_id"`

	// Sequence is the per-device monotonic counter of the event.
	Sequence int64 `json:"sequence"`
}

// SyncResult reports the outcome of publishing a sync event. Publishing
// never panics into the caller: storage and serialization failures are
// folded into a failed result.
type SyncResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DeletedUser is the persisted tombstone record written when an agent
// deletes a user locally. It survives agent restarts so that a stale
// persisted session for a deleted account is not restored.
type DeletedUser struct {
	// ID is the deleted account's identifier.
	ID string `json:"id"`

	// Email is kept alongside the ID so session validation can match on
	// the ID+email pair.
	Email string `json:"email"`

	// DeletedAt is when the local delete happened; the persisted list is
	// pruned by absolute age.
	DeletedAt time.Time `json:"deleted_at"`
}
