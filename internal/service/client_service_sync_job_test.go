package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTicker lets tests drive the polling loop tick by tick.
type manualTicker struct {
	ch chan time.Time
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (t *manualTicker) Chan() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()                  {}

func (t *manualTicker) tick() {
	t.ch <- time.Now()
}

type syncJobEnv struct {
	job    *syncJob
	relay  EventRelay
	ticker *manualTicker
	calls  atomic.Int64
}

func newSyncJobEnv(t *testing.T) *syncJobEnv {
	t.Helper()

	env := &syncJobEnv{
		relay:  NewEventRelay(newMemoryStorages(t), logger.Nop()),
		ticker: newManualTicker(),
	}
	env.job = NewSyncJob(env.relay, logger.Nop()).(*syncJob)
	env.job.newTicker = func(time.Duration) syncTicker { return env.ticker }
	t.Cleanup(env.job.StopAutoSync)
	return env
}

func (e *syncJobEnv) countingCallback(context.Context) error {
	e.calls.Add(1)
	return nil
}

func (e *syncJobEnv) waitForCalls(t *testing.T, want int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		return e.calls.Load() == want
	}, time.Second, time.Millisecond)
}

func TestSyncJob_TwoTicksRunCallbackExactlyTwice(t *testing.T) {
	env := newSyncJobEnv(t)
	env.job.SetOnline(true)

	// over a 25s window a 10s cadence fires at 10s and 20s: two ticks,
	// two runs, nothing more
	env.job.StartAutoSync(env.countingCallback, 10*time.Second)
	env.ticker.tick()
	env.waitForCalls(t, 1)
	env.ticker.tick()
	env.waitForCalls(t, 2)
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 2, env.calls.Load())
}

func TestSyncJob_OfflineSkipsCallback(t *testing.T) {
	env := newSyncJobEnv(t)

	env.job.StartAutoSync(env.countingCallback, time.Second)
	env.ticker.tick()
	env.ticker.tick()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, env.calls.Load())
	assert.False(t, env.job.Online())
}

func TestSyncJob_InFlightTickIsSkipped(t *testing.T) {
	env := newSyncJobEnv(t)
	env.job.SetOnline(true)

	started := make(chan struct{})
	release := make(chan struct{})
	env.job.StartAutoSync(func(context.Context) error {
		env.calls.Add(1)
		if env.calls.Load() == 1 {
			close(started)
			<-release
		}
		return nil
	}, time.Second)

	env.ticker.tick()
	<-started

	// this tick lands while the first callback is still running: the
	// loop must skip it instead of queueing a second run
	env.ticker.tick()
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 1, env.calls.Load())

	close(release)
	require.Eventually(t, func() bool {
		return !env.job.inFlight.Load()
	}, time.Second, time.Millisecond)
	env.ticker.tick()
	env.waitForCalls(t, 2)
}

func TestSyncJob_CallbackErrorIsSwallowed(t *testing.T) {
	env := newSyncJobEnv(t)
	env.job.SetOnline(true)

	env.job.StartAutoSync(func(context.Context) error {
		env.calls.Add(1)
		return assert.AnError
	}, time.Second)

	env.ticker.tick()
	env.waitForCalls(t, 1)
	env.ticker.tick()
	env.waitForCalls(t, 2)
}

func TestSyncJob_RegainingConnectivityForcesSync(t *testing.T) {
	env := newSyncJobEnv(t)
	storages := newMemoryStorages(t)
	env.relay = NewEventRelay(storages, logger.Nop())
	env.job.relay = env.relay

	env.job.StartAutoSync(env.countingCallback, time.Second)

	env.job.SetOnline(true)

	// one FORCE_SYNC event lands in the shared log
	events, err := storages.EventStore.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventForceSync, events[0].Type)

	// and one sync runs without waiting for a tick
	env.waitForCalls(t, 1)

	// flipping the flag again while already online does not repeat either
	env.job.SetOnline(true)
	time.Sleep(20 * time.Millisecond)
	events, err = storages.EventStore.ReadAll()
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.EqualValues(t, 1, env.calls.Load())
}

func TestSyncJob_StopBeforeStartIsSafe(t *testing.T) {
	env := newSyncJobEnv(t)

	assert.NotPanics(t, func() { env.job.StopAutoSync() })
	assert.NotPanics(t, func() { env.job.StopAutoSync() })
}

func TestSyncJob_StopEndsTicks(t *testing.T) {
	env := newSyncJobEnv(t)
	env.job.SetOnline(true)

	env.job.StartAutoSync(env.countingCallback, time.Second)
	env.ticker.tick()
	env.waitForCalls(t, 1)

	env.job.StopAutoSync()

	select {
	case env.ticker.ch <- time.Now():
		t.Fatal("loop still consuming ticks after stop")
	case <-time.After(20 * time.Millisecond):
	}
	assert.EqualValues(t, 1, env.calls.Load())
}

func TestSyncJob_DefaultIntervalFallback(t *testing.T) {
	env := newSyncJobEnv(t)
	env.job.SetOnline(true)

	var gotInterval time.Duration
	env.job.newTicker = func(interval time.Duration) syncTicker {
		gotInterval = interval
		return env.ticker
	}

	env.job.StartAutoSync(env.countingCallback, 0)
	require.Eventually(t, func() bool {
		return gotInterval == defaultSyncInterval
	}, time.Second, time.Millisecond)
}
