package store

import (
	"fmt"

	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
)

// ClientStorages groups the agent-side storage layer: the shared byte
// backend with its typed stores, and the SQLite replica of the server's
// collections.
type ClientStorages struct {
	// Backend is the shared key-value storage the typed stores persist
	// through. Exposed so the event relay can watch the event log's file.
	Backend Backend

	// EventStore is the bounded cross-process sync-event log.
	EventStore EventStore

	// TombstoneStore is the persisted deleted-user list.
	TombstoneStore TombstoneStore

	// SessionStore is the persisted login session.
	SessionStore SessionStore

	// Replica is the local users/tickets snapshot.
	Replica Replica
}

// NewClientStorages initialises the agent storage layer from the local
// storage configuration. An empty cfg.Dir selects the in-memory backend;
// cross-process event relaying then degrades to in-process delivery only.
func NewClientStorages(cfg config.Local, syncCfg config.Sync, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating client storages...")

	var (
		backend Backend
		err     error
	)
	if cfg.Dir == "" {
		backend = NewMemoryBackend()
	} else {
		backend, err = NewFileBackend(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("file backend: %w", err)
		}
	}

	replica, err := NewSQLiteReplica(cfg.ReplicaDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("local replica: %w", err)
	}

	return &ClientStorages{
		Backend:        backend,
		EventStore:     NewEventStore(backend, syncCfg.EventStoreCap),
		TombstoneStore: NewTombstoneStore(backend),
		SessionStore:   NewSessionStore(backend),
		Replica:        replica,
	}, nil
}
