package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type fileBackend struct {
	dir string
	mu  sync.Mutex
}

// NewFileBackend returns a Backend storing each key as a JSON file inside
// dir. The directory is created if it does not exist. Agent processes
// pointed at the same directory see each other's writes, which is the
// transport for cross-process sync events.
func NewFileBackend(dir string) (Backend, error) {
	if dir == "" {
		return nil, fmt.Errorf("file backend: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backend dir: %w", err)
	}
	return &fileBackend{dir: dir}, nil
}

func (f *fileBackend) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("read backend key %q: %w", key, err)
	}
	return data, nil
}

func (f *fileBackend) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Write-then-rename keeps concurrent readers and file watchers from
	// ever observing a partially written value.
	path := f.Path(key)
	tmp, err := os.CreateTemp(f.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for key %q: %w", key, err)
	}

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write backend key %q: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file for key %q: %w", key, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace backend key %q: %w", key, err)
	}
	return nil
}

func (f *fileBackend) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete backend key %q: %w", key, err)
	}
	return nil
}

func (f *fileBackend) Path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

type memoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryBackend returns a Backend holding values in process memory.
// It backs tests and in-memory agent runs; it has no filesystem path, so
// cross-process event delivery is unavailable with it.
func NewMemoryBackend() Backend {
	return &memoryBackend{values: make(map[string][]byte)}
}

func (m *memoryBackend) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *memoryBackend) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *memoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *memoryBackend) Path(string) string { return "" }
