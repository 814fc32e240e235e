package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/metrics"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/internal/utils"
	"github.com/fixit-helpdesk/fixit/models"
	"github.com/fsnotify/fsnotify"
)

const (
	dispatchOriginLocal  = "in_process"
	dispatchOriginRemote = "cross_process"
)

type eventRelay struct {
	deviceID   string
	sequence   atomic.Int64
	eventStore store.EventStore
	backend    store.Backend
	logger     *logger.Logger

	mu           sync.RWMutex
	subscribers  map[int64]func(models.SyncEvent)
	nextSubID    int64
	lastSeen     map[string]int64
	watcher      *fsnotify.Watcher
	watchCancel  context.CancelFunc
	watchStarted bool
}

// NewEventRelay builds the relay over the shared event store. Each relay
// instance gets a fresh device ID; it stays stable until the process
// exits.
func NewEventRelay(storages *store.ClientStorages, logger *logger.Logger) EventRelay {
	return &eventRelay{
		deviceID:    utils.NewUUIDGenerator().Generate(),
		eventStore:  storages.EventStore,
		backend:     storages.Backend,
		logger:      logger,
		subscribers: make(map[int64]func(models.SyncEvent)),
		lastSeen:    make(map[string]int64),
	}
}

func (r *eventRelay) DeviceID() string { return r.deviceID }

func (r *eventRelay) CreateSyncEvent(eventType models.SyncEventType, data json.RawMessage) models.SyncEvent {
	return models.SyncEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		DeviceID:  r.deviceID,
		Sequence:  r.sequence.Add(1),
	}
}

func (r *eventRelay) SendSyncEvent(event models.SyncEvent) models.SyncResult {
	if err := r.eventStore.Append(event); err != nil {
		r.logger.Error().Err(err).
			Str("type", string(event.Type)).
			Msg("failed to persist sync event")
		return models.SyncResult{Error: err.Error()}
	}

	metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()

	// Own events are tracked as seen so the file watch never echoes them
	// back through the cross-process path.
	r.mu.Lock()
	if event.Sequence > r.lastSeen[event.DeviceID] {
		r.lastSeen[event.DeviceID] = event.Sequence
	}
	callbacks := r.snapshotSubscribersLocked()
	r.mu.Unlock()

	// Same-process delivery carries no self-filter: the publisher's own
	// subscribers want to refresh after a local mutation too.
	for _, callback := range callbacks {
		r.dispatch(callback, event, dispatchOriginLocal)
	}

	return models.SyncResult{Success: true}
}

func (r *eventRelay) OnSyncEvent(callback func(models.SyncEvent)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = callback

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subscribers, id)
	}
}

func (r *eventRelay) Watch(ctx context.Context) error {
	path := r.backend.Path(store.SyncEventsKey)
	if path == "" {
		r.logger.Info().Msg("backend has no file path, cross-process event delivery disabled")
		return nil
	}

	r.mu.Lock()
	if r.watchStarted {
		r.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.mu.Unlock()
		return err
	}

	// Watch the directory, not the file: the backend replaces the log
	// atomically via rename, and the file may not exist yet.
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		r.mu.Unlock()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	r.watcher = watcher
	r.watchCancel = cancel
	r.watchStarted = true
	r.mu.Unlock()

	go r.watchLoop(watchCtx, watcher, path)

	return nil
}

func (r *eventRelay) Close() error {
	r.mu.Lock()
	watcher := r.watcher
	cancel := r.watchCancel
	r.watcher = nil
	r.watchCancel = nil
	r.watchStarted = false
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if watcher != nil {
		return watcher.Close()
	}
	return nil
}

func (r *eventRelay) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != path || !event.Op.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			r.deliverLatest()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error().Err(err).Msg("event log watch error")
		}
	}
}

// deliverLatest reads the shared log and dispatches the single newest
// entry this relay has not yet seen from another device. Older unseen
// entries are only marked as seen: the changed-log signal means "refresh
// now", and one refresh covers all of them.
func (r *eventRelay) deliverLatest() {
	events, err := r.eventStore.ReadAll()
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read sync event log")
		return
	}

	r.mu.Lock()
	var latest *models.SyncEvent
	for i := range events {
		event := events[i]
		if event.Sequence <= r.lastSeen[event.DeviceID] {
			continue
		}
		r.lastSeen[event.DeviceID] = event.Sequence
		if event.DeviceID == r.deviceID {
			continue
		}
		latest = &events[i]
	}
	callbacks := r.snapshotSubscribersLocked()
	r.mu.Unlock()

	if latest == nil {
		return
	}
	for _, callback := range callbacks {
		r.dispatch(callback, *latest, dispatchOriginRemote)
	}
}

func (r *eventRelay) dispatch(callback func(models.SyncEvent), event models.SyncEvent, origin string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Interface("panic", rec).
				Str("type", string(event.Type)).
				Msg("sync event subscriber panicked")
		}
	}()

	callback(event)
	metrics.EventsDispatched.WithLabelValues(origin).Inc()
}

func (r *eventRelay) snapshotSubscribersLocked() []func(models.SyncEvent) {
	callbacks := make([]func(models.SyncEvent), 0, len(r.subscribers))
	for _, callback := range r.subscribers {
		callbacks = append(callbacks, callback)
	}
	return callbacks
}
