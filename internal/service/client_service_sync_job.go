package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/metrics"
	"github.com/fixit-helpdesk/fixit/models"
)

const defaultSyncInterval = 3 * time.Second

// syncTicker abstracts time.Ticker so tests can drive ticks manually.
type syncTicker interface {
	Chan() <-chan time.Time
	Stop()
}

type tickerFactory func(time.Duration) syncTicker

type realTicker struct{ *time.Ticker }

func (t realTicker) Chan() <-chan time.Time { return t.C }

func newRealTicker(interval time.Duration) syncTicker {
	return realTicker{time.NewTicker(interval)}
}

type syncJob struct {
	relay     EventRelay
	logger    *logger.Logger
	newTicker tickerFactory

	online   atomic.Bool
	inFlight atomic.Bool

	mu       sync.Mutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	jobCtx   context.Context
	callback func(context.Context) error
}

// NewSyncJob creates the polling loop driver. The job starts offline and
// idle: callers flip SetOnline and call StartAutoSync once wiring is
// complete.
func NewSyncJob(relay EventRelay, logger *logger.Logger) SyncJob {
	return &syncJob{
		relay:     relay,
		logger:    logger,
		newTicker: newRealTicker,
	}
}

func (j *syncJob) StartAutoSync(callback func(context.Context) error, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	j.StopAutoSync()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	j.jobCtx = jobCtx
	j.callback = callback
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		ticker := j.newTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-ticker.Chan():
				// run asynchronously so the loop keeps consuming ticks;
				// the in-flight guard decides whether this one runs
				go j.runOnce(jobCtx, callback)
			}
		}
	}()
}

func (j *syncJob) StopAutoSync() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.jobCtx = nil
	j.callback = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *syncJob) SetOnline(online bool) {
	wasOnline := j.online.Swap(online)
	if !online || wasOnline {
		return
	}

	// Regained connectivity: announce it to every session and run one
	// sync right away instead of waiting out the current tick.
	result := j.relay.SendSyncEvent(j.relay.CreateSyncEvent(models.EventForceSync, nil))
	if !result.Success {
		j.logger.Error().Str("error", result.Error).Msg("failed to publish force sync event")
	}

	j.mu.Lock()
	jobCtx, callback := j.jobCtx, j.callback
	j.mu.Unlock()

	if jobCtx == nil || callback == nil {
		return
	}
	go j.runOnce(jobCtx, callback)
}

func (j *syncJob) Online() bool {
	return j.online.Load()
}

func (j *syncJob) runOnce(ctx context.Context, callback func(context.Context) error) {
	if !j.online.Load() {
		return
	}

	// A tick landing while the previous cycle is still running is
	// skipped, not queued.
	if !j.inFlight.CompareAndSwap(false, true) {
		metrics.SyncSkipped.Inc()
		j.logger.Debug().Msg("sync cycle still in flight, skipping tick")
		return
	}
	defer j.inFlight.Store(false)

	metrics.SyncTicks.Inc()
	if err := callback(ctx); err != nil {
		j.logger.Error().Err(err).Msg("sync cycle failed")
	}
}
