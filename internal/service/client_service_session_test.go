package service

import (
	"context"
	"testing"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/mock"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

type sessionEnv struct {
	sessions SessionService
	adapter  *mock.MockServerAdapter
	storages *store.ClientStorages
}

func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	storages := newMemoryStorages(t)

	return &sessionEnv{
		sessions: NewSessionService(serverAdapter, storages, logger.Nop()),
		adapter:  serverAdapter,
		storages: storages,
	}
}

func TestSessionService_LoginPersistsSession(t *testing.T) {
	env := newSessionEnv(t)

	env.adapter.EXPECT().Login(gomock.Any(), "jane@fixit.local", "secret").
		Return(models.LoginResponse{
			User:  models.User{ID: "u-1", Email: "jane@fixit.local"},
			Token: "tok",
		}, nil)

	session, err := env.sessions.Login(context.Background(), "jane@fixit.local", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", session.User.ID)

	current, ok := env.sessions.Current()
	require.True(t, ok)
	assert.Equal(t, "tok", current.Token)

	persisted, err := env.storages.SessionStore.Load()
	require.NoError(t, err)
	assert.Equal(t, "u-1", persisted.User.ID)
}

func TestSessionService_RestorePrimesAdapterToken(t *testing.T) {
	env := newSessionEnv(t)

	require.NoError(t, env.storages.SessionStore.Save(models.Session{
		User:    models.User{ID: "u-1", Email: "jane@fixit.local"},
		Token:   "persisted-tok",
		SavedAt: time.Now(),
	}))

	env.adapter.EXPECT().SetToken("persisted-tok")

	session, err := env.sessions.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", session.User.ID)

	_, ok := env.sessions.Current()
	assert.True(t, ok)
}

func TestSessionService_RestoreRejectsDeletedAccount(t *testing.T) {
	env := newSessionEnv(t)

	require.NoError(t, env.storages.SessionStore.Save(models.Session{
		User:    models.User{ID: "u-1", Email: "jane@fixit.local"},
		Token:   "stale-tok",
		SavedAt: time.Now(),
	}))
	require.NoError(t, env.storages.TombstoneStore.Append(models.DeletedUser{
		ID: "u-1", Email: "jane@fixit.local", DeletedAt: time.Now(),
	}))

	env.adapter.EXPECT().SetToken("")

	_, err := env.sessions.Restore(context.Background())
	require.ErrorIs(t, err, ErrSessionInvalidated)

	// the stale session is gone for good
	_, err = env.storages.SessionStore.Load()
	require.ErrorIs(t, err, store.ErrLocalSessionNotFound)
	_, ok := env.sessions.Current()
	assert.False(t, ok)
}

func TestSessionService_RestoreWithoutPersistedSession(t *testing.T) {
	env := newSessionEnv(t)

	_, err := env.sessions.Restore(context.Background())
	require.ErrorIs(t, err, store.ErrLocalSessionNotFound)
}

func TestSessionService_TombstoneMatchRequiresIDAndEmail(t *testing.T) {
	env := newSessionEnv(t)

	require.NoError(t, env.storages.SessionStore.Save(models.Session{
		User:    models.User{ID: "u-1", Email: "jane@fixit.local"},
		Token:   "tok",
		SavedAt: time.Now(),
	}))
	// same ID, different email: not the same account
	require.NoError(t, env.storages.TombstoneStore.Append(models.DeletedUser{
		ID: "u-1", Email: "other@fixit.local", DeletedAt: time.Now(),
	}))

	env.adapter.EXPECT().SetToken("tok")

	_, err := env.sessions.Restore(context.Background())
	require.NoError(t, err)
}

func TestSessionService_Logout(t *testing.T) {
	env := newSessionEnv(t)

	env.adapter.EXPECT().Login(gomock.Any(), "jane@fixit.local", "secret").
		Return(models.LoginResponse{
			User:  models.User{ID: "u-1", Email: "jane@fixit.local"},
			Token: "tok",
		}, nil)
	_, err := env.sessions.Login(context.Background(), "jane@fixit.local", "secret")
	require.NoError(t, err)

	env.adapter.EXPECT().SetToken("")
	require.NoError(t, env.sessions.Logout())

	_, ok := env.sessions.Current()
	assert.False(t, ok)
	_, err = env.storages.SessionStore.Load()
	require.ErrorIs(t, err, store.ErrLocalSessionNotFound)
}

func TestSessionService_LoginWithOTP(t *testing.T) {
	env := newSessionEnv(t)

	env.adapter.EXPECT().RequestOTP(gomock.Any(), "jane@fixit.local").Return(nil)
	require.NoError(t, env.sessions.RequestOTP(context.Background(), "jane@fixit.local"))

	env.adapter.EXPECT().VerifyOTP(gomock.Any(), "jane@fixit.local", "123456").
		Return(models.LoginResponse{
			User:  models.User{ID: "u-1", Email: "jane@fixit.local"},
			Token: "otp-tok",
		}, nil)

	session, err := env.sessions.LoginWithOTP(context.Background(), "jane@fixit.local", "123456")
	require.NoError(t, err)
	assert.Equal(t, "otp-tok", session.Token)
}
