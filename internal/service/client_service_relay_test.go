package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStorages(t *testing.T) *store.ClientStorages {
	t.Helper()
	storages, err := store.NewClientStorages(config.Local{}, config.Sync{}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Replica.Close() })
	return storages
}

func newFileStorages(t *testing.T, dir string) *store.ClientStorages {
	t.Helper()
	storages, err := store.NewClientStorages(config.Local{Dir: dir}, config.Sync{}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Replica.Close() })
	return storages
}

// eventCollector is a concurrency-safe subscriber spy.
type eventCollector struct {
	mu     sync.Mutex
	events []models.SyncEvent
}

func (c *eventCollector) callback(event models.SyncEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *eventCollector) snapshot() []models.SyncEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.SyncEvent, len(c.events))
	copy(out, c.events)
	return out
}

func (c *eventCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestEventRelay_CreateSyncEvent_StampsDeviceAndSequence(t *testing.T) {
	relay := NewEventRelay(newMemoryStorages(t), logger.Nop())

	first := relay.CreateSyncEvent(models.EventTicketCreated, json.RawMessage(`{"id":"t-1"}`))
	second := relay.CreateSyncEvent(models.EventTicketUpdated, nil)

	assert.Equal(t, relay.DeviceID(), first.DeviceID)
	assert.Equal(t, relay.DeviceID(), second.DeviceID)
	assert.EqualValues(t, 1, first.Sequence)
	assert.EqualValues(t, 2, second.Sequence)
	assert.False(t, first.Timestamp.IsZero())
}

func TestEventRelay_SendDeliversOwnEventsInProcess(t *testing.T) {
	storages := newMemoryStorages(t)
	relay := NewEventRelay(storages, logger.Nop())

	collector := &eventCollector{}
	unsubscribe := relay.OnSyncEvent(collector.callback)
	defer unsubscribe()

	event := relay.CreateSyncEvent(models.EventUserUpdated, json.RawMessage(`{"id":"u-1"}`))
	result := relay.SendSyncEvent(event)
	require.True(t, result.Success)

	// the publisher's own subscriber receives the event: the in-process
	// path carries no self-filter
	got := collector.snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, relay.DeviceID(), got[0].DeviceID)

	// and the event landed in the shared store
	stored, err := storages.EventStore.ReadAll()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, event.Type, stored[0].Type)
	assert.Equal(t, event.Data, stored[0].Data)
	assert.Equal(t, event.DeviceID, stored[0].DeviceID)
	assert.Equal(t, event.Sequence, stored[0].Sequence)
}

func TestEventRelay_Unsubscribe(t *testing.T) {
	relay := NewEventRelay(newMemoryStorages(t), logger.Nop())

	collector := &eventCollector{}
	unsubscribe := relay.OnSyncEvent(collector.callback)

	relay.SendSyncEvent(relay.CreateSyncEvent(models.EventUserCreated, nil))
	unsubscribe()
	relay.SendSyncEvent(relay.CreateSyncEvent(models.EventUserCreated, nil))

	assert.Equal(t, 1, collector.count())
}

func TestEventRelay_DeliverLatest_SkipsOwnAndOlderEntries(t *testing.T) {
	storages := newMemoryStorages(t)
	relay := NewEventRelay(storages, logger.Nop()).(*eventRelay)

	collector := &eventCollector{}
	defer relay.OnSyncEvent(collector.callback)()

	// a multi-device log: two foreign events and one of our own, which
	// arrives last
	foreign := []models.SyncEvent{
		{Type: models.EventUserCreated, Timestamp: time.Now(), DeviceID: "device-b", Sequence: 1},
		{Type: models.EventTicketUpdated, Timestamp: time.Now(), DeviceID: "device-b", Sequence: 2},
	}
	for _, event := range foreign {
		require.NoError(t, storages.EventStore.Append(event))
	}
	require.NoError(t, storages.EventStore.Append(models.SyncEvent{
		Type: models.EventTicketCreated, Timestamp: time.Now(),
		DeviceID: relay.DeviceID(), Sequence: 9,
	}))

	relay.deliverLatest()

	// only the newest foreign entry is dispatched; older unseen ones are
	// just marked as seen, and our own entry is filtered out
	got := collector.snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, models.EventTicketUpdated, got[0].Type)
	assert.EqualValues(t, 2, got[0].Sequence)

	// a second pass over the unchanged log delivers nothing
	relay.deliverLatest()
	assert.Equal(t, 1, collector.count())
}

func TestEventRelay_CrossProcessDeliveryFiltersSelf(t *testing.T) {
	dir := t.TempDir()

	relayA := NewEventRelay(newFileStorages(t, dir), logger.Nop())
	relayB := NewEventRelay(newFileStorages(t, dir), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, relayA.Watch(ctx))
	require.NoError(t, relayB.Watch(ctx))
	defer func() { _ = relayA.Close() }()
	defer func() { _ = relayB.Close() }()

	collectorA := &eventCollector{}
	collectorB := &eventCollector{}
	defer relayA.OnSyncEvent(collectorA.callback)()
	defer relayB.OnSyncEvent(collectorB.callback)()

	result := relayA.SendSyncEvent(relayA.CreateSyncEvent(models.EventUserDeleted, json.RawMessage(`{"id":"u-1"}`)))
	require.True(t, result.Success)

	// the other process's relay picks the event up from the file
	require.Eventually(t, func() bool {
		return collectorB.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, relayA.DeviceID(), collectorB.snapshot()[0].DeviceID)

	// the publisher saw it once, through the in-process path; the file
	// watch must not echo it back
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, collectorA.count())
}

func TestEventRelay_Watch_NoFilePathIsANoOp(t *testing.T) {
	relay := NewEventRelay(newMemoryStorages(t), logger.Nop())

	require.NoError(t, relay.Watch(context.Background()))
	require.NoError(t, relay.Close())
}

func TestEventRelay_SubscriberPanicIsContained(t *testing.T) {
	relay := NewEventRelay(newMemoryStorages(t), logger.Nop())

	defer relay.OnSyncEvent(func(models.SyncEvent) { panic("boom") })()
	collector := &eventCollector{}
	defer relay.OnSyncEvent(collector.callback)()

	result := relay.SendSyncEvent(relay.CreateSyncEvent(models.EventForceSync, nil))
	assert.True(t, result.Success)
	assert.Equal(t, 1, collector.count())
}
