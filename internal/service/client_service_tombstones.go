package service

import (
	"sync"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/models"
)

const defaultTombstoneClearInterval = time.Hour

type tombstoneService struct {
	persisted     store.TombstoneStore
	clearInterval time.Duration
	perEntryTTL   bool
	logger        *logger.Logger

	mu      sync.RWMutex
	entries map[string]time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// NewTombstoneService builds the tombstone tracker. Two expiry modes
// exist: the default clears the whole in-memory set on a fixed interval,
// so a tombstone can live anywhere from zero to the full interval
// depending on when in the cycle the delete happened. The per-entry TTL
// mode ages each tombstone individually for the same duration instead,
// which removes that spread at the cost of one timestamp per entry.
func NewTombstoneService(persisted store.TombstoneStore, cfg config.Sync, logger *logger.Logger) TombstoneService {
	interval := cfg.TombstoneClearInterval
	if interval <= 0 {
		interval = defaultTombstoneClearInterval
	}

	return &tombstoneService{
		persisted:     persisted,
		clearInterval: interval,
		perEntryTTL:   cfg.TombstonePerEntryTTL,
		logger:        logger,
		entries:       make(map[string]time.Time),
		done:          make(chan struct{}),
	}
}

func (t *tombstoneService) MarkDeleted(user models.User) error {
	now := time.Now()

	t.mu.Lock()
	t.entries[user.ID] = now
	t.mu.Unlock()

	// The persisted record outlives the in-memory set: it is what keeps a
	// stale session for a deleted account from being restored after a
	// restart.
	if err := t.persisted.Append(models.DeletedUser{
		ID:        user.ID,
		Email:     user.Email,
		DeletedAt: now,
	}); err != nil {
		t.logger.Error().Err(err).Str("user_id", user.ID).
			Msg("failed to persist deleted user record")
		return err
	}

	return nil
}

func (t *tombstoneService) IsDeleted(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	markedAt, ok := t.entries[id]
	if !ok {
		return false
	}
	if t.perEntryTTL && time.Since(markedAt) >= t.clearInterval {
		return false
	}
	return true
}

func (t *tombstoneService) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = make(map[string]time.Time)
}

func (t *tombstoneService) Run() {
	go func() {
		ticker := time.NewTicker(t.clearInterval)
		defer ticker.Stop()

		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				if t.perEntryTTL {
					t.sweepExpired()
					continue
				}
				t.Clear()
				t.logger.Debug().Msg("tombstone set cleared")
			}
		}
	}()
}

func (t *tombstoneService) Close() {
	t.closeOnce.Do(func() { close(t.done) })
}

func (t *tombstoneService) sweepExpired() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, markedAt := range t.entries {
		if time.Since(markedAt) >= t.clearInterval {
			delete(t.entries, id)
		}
	}
}
