// Package auth persists per-connector credentials to a single JSON document
// under the user's home directory.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arivu/arivu/internal/connector"
)

const fileName = "auth.json"

// Store is an in-memory cache backed by an atomically-written JSON file
// mapping credential_provider -> credential map.
// Open loads the file once; reads are served from the in-memory copy only and
// never go back to disk. Writes go to a temp file and are renamed into place
// so a crash never leaves a partial document.
type Store struct {
	mu   sync.RWMutex
	dir  string
	data map[string]connector.AuthDetails
}

// Open loads the store from dir/auth.json, creating dir if necessary. A
// missing file is treated as an empty store, not an error.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating auth directory: %w", err)
	}

	s := &Store{dir: dir, data: make(map[string]connector.AuthDetails)}

	path := filepath.Join(dir, fileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading auth file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parsing auth file: %w", err)
	}
	return s, nil
}

// Get returns the credentials for a provider, or an empty map if none exist.
func (s *Store) Get(provider string) connector.AuthDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.data[provider]; ok {
		return d.Clone()
	}
	return connector.AuthDetails{}
}

// Save persists credentials for a provider, overwriting any existing entry,
// via temp-file-then-rename.
func (s *Store) Save(provider string, details connector.AuthDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[provider] = details.Clone()
	return s.writeLocked()
}

// Delete removes a provider's credentials.
func (s *Store) Delete(provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, provider)
	return s.writeLocked()
}

func (s *Store) writeLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding auth file: %w", err)
	}

	path := filepath.Join(s.dir, fileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing temp auth file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming auth file into place: %w", err)
	}
	return nil
}
