package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fixit-helpdesk/fixit/models"
)

const defaultTombstoneMaxAge = 24 * time.Hour

type tombstoneStore struct {
	backend Backend
}

// NewTombstoneStore returns the persisted deleted-user list stored under
// [DeletedUsersKey].
func NewTombstoneStore(backend Backend) TombstoneStore {
	return &tombstoneStore{backend: backend}
}

func (t *tombstoneStore) Append(record models.DeletedUser) error {
	records, err := t.ReadAll()
	if err != nil {
		return err
	}

	return t.write(append(records, record))
}

func (t *tombstoneStore) ReadAll() ([]models.DeletedUser, error) {
	data, err := t.backend.Get(DeletedUsersKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read deleted user list: %w", err)
	}

	var records []models.DeletedUser
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode deleted user list: %w", err)
	}
	return records, nil
}

func (t *tombstoneStore) PruneOlderThan(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = defaultTombstoneMaxAge
	}

	records, err := t.ReadAll()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	kept := records[:0]
	for _, record := range records {
		if record.DeletedAt.After(cutoff) {
			kept = append(kept, record)
		}
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	return removed, t.write(kept)
}

func (t *tombstoneStore) write(records []models.DeletedUser) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode deleted user list: %w", err)
	}
	if err = t.backend.Set(DeletedUsersKey, payload); err != nil {
		return fmt.Errorf("persist deleted user list: %w", err)
	}
	return nil
}
