package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/adapter"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/models"
)

type sessionService struct {
	adapter    adapter.ServerAdapter
	sessions   store.SessionStore
	tombstones store.TombstoneStore
	logger     *logger.Logger

	mu      sync.RWMutex
	current *models.Session
}

// NewSessionService builds the agent's session manager.
func NewSessionService(serverAdapter adapter.ServerAdapter, storages *store.ClientStorages, logger *logger.Logger) SessionService {
	return &sessionService{
		adapter:    serverAdapter,
		sessions:   storages.SessionStore,
		tombstones: storages.TombstoneStore,
		logger:     logger,
	}
}

func (s *sessionService) Login(ctx context.Context, email, password string) (models.Session, error) {
	resp, err := s.adapter.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, fmt.Errorf("login: %w", err)
	}

	return s.establish(resp)
}

func (s *sessionService) RequestOTP(ctx context.Context, email string) error {
	if err := s.adapter.RequestOTP(ctx, email); err != nil {
		return fmt.Errorf("request otp: %w", err)
	}
	return nil
}

func (s *sessionService) LoginWithOTP(ctx context.Context, email, code string) (models.Session, error) {
	resp, err := s.adapter.VerifyOTP(ctx, email, code)
	if err != nil {
		return models.Session{}, fmt.Errorf("verify otp: %w", err)
	}

	return s.establish(resp)
}

func (s *sessionService) Restore(ctx context.Context) (models.Session, error) {
	session, err := s.sessions.Load()
	if err != nil {
		return models.Session{}, err
	}

	deleted, err := s.accountDeleted(session.User)
	if err != nil {
		return models.Session{}, err
	}
	if deleted {
		s.logger.Info().Str("user_id", session.User.ID).
			Msg("persisted session belongs to a deleted account, clearing it")
		if err = s.Logout(); err != nil {
			return models.Session{}, err
		}
		return models.Session{}, ErrSessionInvalidated
	}

	s.adapter.SetToken(session.Token)

	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()

	return session, nil
}

func (s *sessionService) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}

func (s *sessionService) Logout() error {
	s.adapter.SetToken("")

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.sessions.Clear(); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

func (s *sessionService) establish(resp models.LoginResponse) (models.Session, error) {
	session := models.Session{
		User:    resp.User,
		Token:   resp.Token,
		SavedAt: time.Now(),
	}

	if err := s.sessions.Save(session); err != nil {
		// The login itself succeeded; a failed persist only costs the
		// next restart a fresh login.
		s.logger.Error().Err(err).Msg("failed to persist session")
	}

	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()

	return session, nil
}

// accountDeleted matches the session's account against the persisted
// tombstone list on the ID+email pair.
func (s *sessionService) accountDeleted(user models.User) (bool, error) {
	records, err := s.tombstones.ReadAll()
	if err != nil {
		return false, fmt.Errorf("read persisted tombstones: %w", err)
	}

	for _, record := range records {
		if record.ID == user.ID && record.Email == user.Email {
			return true, nil
		}
	}
	return false, nil
}
