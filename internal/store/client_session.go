package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fixit-helpdesk/fixit/models"
)

type sessionStore struct {
	backend Backend
}

// NewSessionStore returns the persisted-session store kept under
// [SessionKey].
func NewSessionStore(backend Backend) SessionStore {
	return &sessionStore{backend: backend}
}

func (s *sessionStore) Save(session models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err = s.backend.Set(SessionKey, payload); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *sessionStore) Load() (models.Session, error) {
	data, err := s.backend.Get(SessionKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return models.Session{}, ErrLocalSessionNotFound
		}
		return models.Session{}, fmt.Errorf("read session: %w", err)
	}

	var session models.Session
	if err = json.Unmarshal(data, &session); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

func (s *sessionStore) Clear() error {
	return s.backend.Delete(SessionKey)
}
