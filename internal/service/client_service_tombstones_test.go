package service

import (
	"testing"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTombstoneService_MarkAndClear(t *testing.T) {
	persisted := store.NewTombstoneStore(store.NewMemoryBackend())
	ts := NewTombstoneService(persisted, config.Sync{}, logger.Nop())

	require.NoError(t, ts.MarkDeleted(models.User{ID: "u-1", Email: "jane@fixit.local"}))

	assert.True(t, ts.IsDeleted("u-1"))
	assert.False(t, ts.IsDeleted("u-2"))

	// the persisted record is written alongside the in-memory mark
	records, err := persisted.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "u-1", records[0].ID)
	assert.Equal(t, "jane@fixit.local", records[0].Email)

	// clearing the set leaves the persisted list alone
	ts.Clear()
	assert.False(t, ts.IsDeleted("u-1"))

	records, err = persisted.ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestTombstoneService_PerEntryTTLExpiry(t *testing.T) {
	ts := NewTombstoneService(store.NewTombstoneStore(store.NewMemoryBackend()), config.Sync{
		TombstoneClearInterval: 30 * time.Millisecond,
		TombstonePerEntryTTL:   true,
	}, logger.Nop())

	require.NoError(t, ts.MarkDeleted(models.User{ID: "u-1", Email: "jane@fixit.local"}))
	assert.True(t, ts.IsDeleted("u-1"))

	// past its TTL the entry stops suppressing, without any bulk clear
	assert.Eventually(t, func() bool {
		return !ts.IsDeleted("u-1")
	}, time.Second, 5*time.Millisecond)
}

func TestTombstoneService_BulkClearWorker(t *testing.T) {
	ts := NewTombstoneService(store.NewTombstoneStore(store.NewMemoryBackend()), config.Sync{
		TombstoneClearInterval: 20 * time.Millisecond,
	}, logger.Nop())

	ts.Run()
	defer ts.Close()

	require.NoError(t, ts.MarkDeleted(models.User{ID: "u-1", Email: "jane@fixit.local"}))

	assert.Eventually(t, func() bool {
		return !ts.IsDeleted("u-1")
	}, time.Second, 5*time.Millisecond)
}
