package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/feedfort/internal/errors"
)

// Backend is durable string key/value storage. Write replaces the whole set
// of keys in one step so that related keys never diverge.
type Backend interface {
	Read() (map[string]string, error)
	Write(values map[string]string) error
}

// FileBackend keeps the keys in a single JSON file with 0600 permissions
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend stored at path
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file location
func (f *FileBackend) Path() string {
	return f.path
}

// Read returns the stored keys; a missing file reads as empty
func (f *FileBackend) Read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionRead, "failed to read session file", err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionCorrupt, "session file is not valid JSON", err).
			WithSuggestion("Remove " + f.path + " and log in again")
	}
	return values, nil
}

// Write stores values through a temp file and rename. An empty map removes
// the file.
func (f *FileBackend) Write(values map[string]string) error {
	if len(values) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeSessionWrite, "failed to remove session file", err)
		}
		return nil
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(errors.ErrCodeSessionWrite, "failed to create session directory", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionWrite, "failed to encode session", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionWrite, "failed to write session file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeSessionWrite, "failed to write session file", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeSessionWrite, "failed to write session file", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeSessionWrite, "failed to write session file", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.Wrap(errors.ErrCodeSessionWrite, "failed to write session file", err)
	}
	return nil
}

// MemoryBackend keeps the keys in process memory
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: map[string]string{}}
}

// Read returns a copy of the stored keys
func (m *MemoryBackend) Read() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

// Write replaces the stored keys
func (m *MemoryBackend) Write(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string]string, len(values))
	for k, v := range values {
		m.values[k] = v
	}
	m.writes++
	return nil
}

// Writes returns how many times Write was called
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
