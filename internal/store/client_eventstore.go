package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/metrics"
	"github.com/fixit-helpdesk/fixit/models"
)

// Backend keys for the agent's persisted sync state. Every agent process
// sharing a data directory reads and writes the same files.
const (
	SyncEventsKey   = "fixit_sync_events"
	DeletedUsersKey = "fixit_deleted_users"
	SessionKey      = "fixit_session"
)

const (
	defaultEventStoreCap = 50
	defaultEventMaxAge   = 24 * time.Hour
)

type eventStore struct {
	backend Backend
	cap     int
}

// NewEventStore returns the bounded sync-event log persisted under
// [SyncEventsKey]. A non-positive cap falls back to 50.
func NewEventStore(backend Backend, cap int) EventStore {
	if cap <= 0 {
		cap = defaultEventStoreCap
	}
	return &eventStore{backend: backend, cap: cap}
}

func (e *eventStore) Append(event models.SyncEvent) error {
	events, err := e.ReadAll()
	if err != nil {
		return err
	}

	events = append(events, event)
	if evicted := len(events) - e.cap; evicted > 0 {
		events = events[evicted:]
		metrics.EventsDropped.Add(float64(evicted))
	}

	return e.write(events)
}

func (e *eventStore) ReadAll() ([]models.SyncEvent, error) {
	data, err := e.backend.Get(SyncEventsKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sync event log: %w", err)
	}

	var events []models.SyncEvent
	if err = json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode sync event log: %w", err)
	}
	return events, nil
}

func (e *eventStore) PruneOlderThan(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = defaultEventMaxAge
	}

	events, err := e.ReadAll()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	kept := events[:0]
	for _, event := range events {
		if event.Timestamp.After(cutoff) {
			kept = append(kept, event)
		}
	}

	removed := len(events) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	return removed, e.write(kept)
}

func (e *eventStore) write(events []models.SyncEvent) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode sync event log: %w", err)
	}
	if err = e.backend.Set(SyncEventsKey, payload); err != nil {
		return fmt.Errorf("persist sync event log: %w", err)
	}
	return nil
}
