package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fixit-helpdesk/fixit/internal/adapter"
	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/mock"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

type deskEnv struct {
	desk       DeskService
	adapter    *mock.MockServerAdapter
	relay      EventRelay
	tombstones TombstoneService
	collector  *eventCollector
	events     store.EventStore
}

func newDeskEnv(t *testing.T) *deskEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	storages := newMemoryStorages(t)

	relay := NewEventRelay(storages, logger.Nop())
	tombstones := NewTombstoneService(storages.TombstoneStore, config.Sync{}, logger.Nop())

	collector := &eventCollector{}
	unsubscribe := relay.OnSyncEvent(collector.callback)
	t.Cleanup(unsubscribe)

	return &deskEnv{
		desk:       NewDeskService(serverAdapter, relay, tombstones, logger.Nop()),
		adapter:    serverAdapter,
		relay:      relay,
		tombstones: tombstones,
		collector:  collector,
		events:     storages.EventStore,
	}
}

func TestDeskService_CreateTicket_PublishesEvent(t *testing.T) {
	env := newDeskEnv(t)
	ticket := models.Ticket{ID: "t-1", Number: "FIX-000001", Title: "Printer is down", Status: models.StatusOpen}

	env.adapter.EXPECT().
		CreateTicket(gomock.Any(), gomock.Any()).
		Return(ticket, nil)

	created, err := env.desk.CreateTicket(context.Background(), models.CreateTicketRequest{
		Title:       "Printer is down",
		Description: "error E502",
		Category:    "hardware",
	})
	require.NoError(t, err)
	assert.Equal(t, "FIX-000001", created.Number)

	events := env.collector.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventTicketCreated, events[0].Type)
	assert.Equal(t, env.relay.DeviceID(), events[0].DeviceID)

	var payload models.Ticket
	require.NoError(t, json.Unmarshal(events[0].Data, &payload))
	assert.Equal(t, "t-1", payload.ID)

	// the event also reached the shared log for other sessions
	stored, err := env.events.ReadAll()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, models.EventTicketCreated, stored[0].Type)
}

func TestDeskService_UpdateTicket_RejectedMutationPublishesNothing(t *testing.T) {
	env := newDeskEnv(t)

	env.adapter.EXPECT().
		UpdateTicket(gomock.Any(), "t-1", gomock.Any()).
		Return(models.Ticket{}, adapter.ErrConflict)

	status := models.StatusClosed
	_, err := env.desk.UpdateTicket(context.Background(), "t-1", models.UpdateTicketRequest{Status: &status})
	require.ErrorIs(t, err, adapter.ErrConflict)

	assert.Zero(t, env.collector.count())
	stored, err := env.events.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestDeskService_AddComment_AnnouncesTicketUpdate(t *testing.T) {
	env := newDeskEnv(t)
	comment := models.Comment{ID: "c-1", TicketID: "t-1", Body: "rebooted the print server"}

	env.adapter.EXPECT().
		AddComment(gomock.Any(), "t-1", gomock.Any()).
		Return(comment, nil)

	got, err := env.desk.AddComment(context.Background(), "t-1", models.AddCommentRequest{Body: "rebooted the print server"})
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)

	events := env.collector.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventTicketUpdated, events[0].Type)
}

func TestDeskService_DeleteUser_TombstonesAndAnnounces(t *testing.T) {
	env := newDeskEnv(t)
	user := models.User{ID: "u-2", Email: "gone@fixit.local", Name: "Gone"}

	env.adapter.EXPECT().
		DeleteUser(gomock.Any(), "u-2").
		Return(nil)

	require.NoError(t, env.desk.DeleteUser(context.Background(), user))

	// the in-memory set suppresses the user until the next clear
	assert.True(t, env.tombstones.IsDeleted("u-2"))

	events := env.collector.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventUserDeleted, events[0].Type)

	var payload models.User
	require.NoError(t, json.Unmarshal(events[0].Data, &payload))
	assert.Equal(t, "u-2", payload.ID)
	assert.Equal(t, "gone@fixit.local", payload.Email)
}

func TestDeskService_DeleteUser_AdapterFailureLeavesNoTrace(t *testing.T) {
	env := newDeskEnv(t)
	serverErr := errors.New("connection refused")

	env.adapter.EXPECT().
		DeleteUser(gomock.Any(), "u-2").
		Return(serverErr)

	err := env.desk.DeleteUser(context.Background(), models.User{ID: "u-2", Email: "gone@fixit.local"})
	require.ErrorIs(t, err, serverErr)

	assert.False(t, env.tombstones.IsDeleted("u-2"))
	assert.Zero(t, env.collector.count())
}
