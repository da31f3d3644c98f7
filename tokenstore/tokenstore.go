// Package tokenstore provides TokenStore implementations for the single
// persisted bearer-token record.
//
// File is the durable store used by real deployments; Memory backs tests and
// ephemeral sessions. Both hold exactly one logical record.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	fieldops "github.com/opsdeck/fieldops-go"
)

// compile-time checks
var (
	_ fieldops.TokenStore = (*File)(nil)
	_ fieldops.TokenStore = (*Memory)(nil)
)

// record is the on-disk shape of the token file.
type record struct {
	Token string `json:"token"`
}

// File persists the token as a JSON record with 0600 permissions.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file-backed token store at the given path.
func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultPath returns the conventional token location under the user config
// directory (e.g. ~/.config/fieldops/session.json).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("fieldops/tokenstore: %w", err)
	}
	return filepath.Join(dir, "fieldops", "session.json"), nil
}

// Load returns the persisted token, or "" if the record is absent.
// A corrupt record reads as absent; the caller treats both the same way.
func (f *File) Load() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("fieldops/tokenstore: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", nil
	}
	return rec.Token, nil
}

// Save persists the token, creating parent directories as needed.
func (f *File) Save(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("fieldops/tokenstore: %w", err)
	}

	data, err := json.Marshal(record{Token: token})
	if err != nil {
		return fmt.Errorf("fieldops/tokenstore: %w", err)
	}

	// Write to a sibling temp file and rename so a crash never leaves a
	// half-written record.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("fieldops/tokenstore: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("fieldops/tokenstore: %w", err)
	}
	return nil
}

// Clear deletes the record. Clearing an absent record is not an error.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("fieldops/tokenstore: %w", err)
	}
	return nil
}

// Memory is an in-process token store.
type Memory struct {
	mu    sync.Mutex
	token string
}

// NewMemory creates an empty in-memory token store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the stored token, or "".
func (m *Memory) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

// Save stores the token.
func (m *Memory) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// Clear deletes the token.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
