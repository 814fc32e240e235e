package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/mock"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

// spyReplica records replacement calls without a real database.
type spyReplica struct {
	mu             sync.Mutex
	userReplaces   int
	ticketReplaces int
	users          []models.User
	tickets        []models.Ticket
}

func (s *spyReplica) ReplaceUsers(_ context.Context, users []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userReplaces++
	s.users = users
	return nil
}

func (s *spyReplica) ReplaceTickets(_ context.Context, tickets []models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticketReplaces++
	s.tickets = tickets
	return nil
}

func (s *spyReplica) GetAllUsers(context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users, nil
}

func (s *spyReplica) GetAllTickets(context.Context) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickets, nil
}

func (s *spyReplica) Close() error { return nil }

type reconcilerEnv struct {
	reconciler Reconciler
	adapter    *mock.MockServerAdapter
	replica    *spyReplica
	tombstones TombstoneService
	sessions   SessionService
}

func newReconcilerEnv(t *testing.T) *reconcilerEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	serverAdapter := mock.NewMockServerAdapter(ctrl)
	replica := &spyReplica{}
	tombstones := NewTombstoneService(store.NewTombstoneStore(store.NewMemoryBackend()), config.Sync{}, logger.Nop())
	sessions := NewSessionService(serverAdapter, newMemoryStorages(t), logger.Nop())

	return &reconcilerEnv{
		reconciler: NewReconciler(serverAdapter, replica, tombstones, sessions, logger.Nop()),
		adapter:    serverAdapter,
		replica:    replica,
		tombstones: tombstones,
		sessions:   sessions,
	}
}

func twoUsers() []models.User {
	return []models.User{
		{ID: "u1", Email: "u1@fixit.local", Name: "One", Role: models.RoleUser, Active: true},
		{ID: "u2", Email: "u2@fixit.local", Name: "Two", Role: models.RoleUser, Active: true},
	}
}

func TestReconciler_ReplacesOnlyWhenFetchDiffers(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	env.adapter.EXPECT().GetAllUsers(gomock.Any()).Return(twoUsers(), nil).Times(2)
	env.adapter.EXPECT().GetAllTickets(gomock.Any(), models.TicketFilter{}).Return(nil, nil).Times(2)

	env.reconciler.Reconcile(ctx)
	require.Equal(t, 1, env.replica.userReplaces)
	assert.Len(t, env.replica.users, 2)

	// an identical second fetch produces no second replacement
	env.reconciler.Reconcile(ctx)
	assert.Equal(t, 1, env.replica.userReplaces)
}

func TestReconciler_TombstoneSuppressesDeletedUser(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	env.adapter.EXPECT().GetAllUsers(gomock.Any()).Return(twoUsers(), nil).Times(3)
	env.adapter.EXPECT().GetAllTickets(gomock.Any(), models.TicketFilter{}).Return(nil, nil).Times(3)

	env.reconciler.Reconcile(ctx)
	require.Len(t, env.replica.users, 2)

	// a locally deleted user is dropped from the next fetch even though
	// the server still returns it
	require.NoError(t, env.tombstones.MarkDeleted(models.User{ID: "u2", Email: "u2@fixit.local"}))
	env.reconciler.Reconcile(ctx)
	require.Equal(t, 2, env.replica.userReplaces)
	require.Len(t, env.replica.users, 1)
	assert.Equal(t, "u1", env.replica.users[0].ID)

	// once the tombstone window closes, the server copy wins again
	env.tombstones.Clear()
	env.reconciler.Reconcile(ctx)
	require.Equal(t, 3, env.replica.userReplaces)
	assert.Len(t, env.replica.users, 2)
}

func TestReconciler_AdapterFailureKeepsPreviousReplica(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	env.adapter.EXPECT().GetAllUsers(gomock.Any()).Return(twoUsers(), nil)
	env.adapter.EXPECT().GetAllTickets(gomock.Any(), models.TicketFilter{}).
		Return([]models.Ticket{{ID: "t-1", Title: "Printer"}}, nil)
	env.reconciler.Reconcile(ctx)
	require.Equal(t, 1, env.replica.userReplaces)
	require.Equal(t, 1, env.replica.ticketReplaces)

	// both fetches fail: nothing changes and nothing panics
	env.adapter.EXPECT().GetAllUsers(gomock.Any()).Return(nil, errors.New("connection refused"))
	env.adapter.EXPECT().GetAllTickets(gomock.Any(), models.TicketFilter{}).
		Return(nil, errors.New("connection refused"))
	env.reconciler.Reconcile(ctx)

	assert.Equal(t, 1, env.replica.userReplaces)
	assert.Equal(t, 1, env.replica.ticketReplaces)
	assert.Len(t, env.replica.users, 2)
	assert.Len(t, env.replica.tickets, 1)
}

func TestReconciler_MissingSessionUserOnlyWarns(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	env.adapter.EXPECT().Login(gomock.Any(), "gone@fixit.local", "secret").
		Return(models.LoginResponse{
			User:  models.User{ID: "u-gone", Email: "gone@fixit.local"},
			Token: "tok",
		}, nil)
	_, err := env.sessions.Login(ctx, "gone@fixit.local", "secret")
	require.NoError(t, err)

	// the logged-in account is absent from the fetch; the session stays
	env.adapter.EXPECT().GetAllUsers(gomock.Any()).Return(twoUsers(), nil)
	env.adapter.EXPECT().GetAllTickets(gomock.Any(), models.TicketFilter{}).Return(nil, nil)
	env.reconciler.Reconcile(ctx)

	_, ok := env.sessions.Current()
	assert.True(t, ok)
	assert.Len(t, env.replica.users, 2)
}

func TestReconciler_TicketReplacementIgnoresTombstones(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	require.NoError(t, env.tombstones.MarkDeleted(models.User{ID: "u1", Email: "u1@fixit.local"}))

	env.adapter.EXPECT().GetAllUsers(gomock.Any()).Return(nil, nil)
	env.adapter.EXPECT().GetAllTickets(gomock.Any(), models.TicketFilter{}).
		Return([]models.Ticket{{ID: "t-1", CreatorID: "u1", CreatedAt: time.Now()}}, nil)

	env.reconciler.Reconcile(ctx)

	// tickets are replaced wholesale even when their creator is tombstoned
	require.Len(t, env.replica.tickets, 1)
	assert.Equal(t, "u1", env.replica.tickets[0].CreatorID)
}
