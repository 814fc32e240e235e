package workers

import (
	"sync"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/store"
)

const (
	maintenanceInterval    = 10 * time.Minute
	defaultRetentionMaxAge = 24 * time.Hour
)

// Maintenance prunes the agent's persisted sync state by age: stored sync
// events and deleted-user records past their retention window are dropped.
// The prune clock is independent of the tombstone clear timer.
type Maintenance struct {
	events      store.EventStore
	tombstones  store.TombstoneStore
	eventMaxAge time.Duration
	logger      *logger.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewMaintenance builds the maintenance worker from the agent's stores.
func NewMaintenance(events store.EventStore, tombstones store.TombstoneStore, cfg config.Sync, logger *logger.Logger) *Maintenance {
	eventMaxAge := cfg.EventMaxAge
	if eventMaxAge <= 0 {
		eventMaxAge = defaultRetentionMaxAge
	}

	return &Maintenance{
		events:      events,
		tombstones:  tombstones,
		eventMaxAge: eventMaxAge,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Run implements [Worker]. It starts the prune loop, which runs on a
// fixed interval until Close is called.
func (m *Maintenance) Run() {
	go func() {
		ticker := time.NewTicker(maintenanceInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.done:
				return
			case <-ticker.C:
				m.prune()
			}
		}
	}()
}

// Close stops the prune loop.
func (m *Maintenance) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

func (m *Maintenance) prune() {
	if removed, err := m.events.PruneOlderThan(m.eventMaxAge); err != nil {
		m.logger.Error().Err(err).Msg("failed to prune sync event log")
	} else if removed > 0 {
		m.logger.Debug().Int("removed", removed).Msg("pruned aged sync events")
	}

	if removed, err := m.tombstones.PruneOlderThan(defaultRetentionMaxAge); err != nil {
		m.logger.Error().Err(err).Msg("failed to prune deleted user records")
	} else if removed > 0 {
		m.logger.Debug().Int("removed", removed).Msg("pruned aged deleted user records")
	}
}
