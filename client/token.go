package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore persists the access/refresh credential pair between calls.
// FileTokenStore survives process restarts; MemoryTokenStore is for
// tests and short-lived sessions.
type TokenStore interface {
	SetTokens(access, refresh string) error
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	ClearTokens() error
}

type storedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// FileTokenStore keeps the credential pair in a JSON file, created with
// owner-only permissions.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath returns the conventional token file location under
// the user config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dms", "tokens.json"), nil
}

func (s *FileTokenStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(storedTokens{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileTokenStore) read() (storedTokens, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return storedTokens{}, false
	}
	var t storedTokens
	if err := json.Unmarshal(data, &t); err != nil {
		return storedTokens{}, false
	}
	return t, true
}

func (s *FileTokenStore) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.read()
	if !ok || t.AccessToken == "" {
		return "", false
	}
	return t.AccessToken, true
}

func (s *FileTokenStore) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.read()
	if !ok || t.RefreshToken == "" {
		return "", false
	}
	return t.RefreshToken, true
}

func (s *FileTokenStore) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryTokenStore holds the pair in memory.
type MemoryTokenStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = access, refresh
	return nil
}

func (s *MemoryTokenStore) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.access != ""
}

func (s *MemoryTokenStore) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh, s.refresh != ""
}

func (s *MemoryTokenStore) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
	return nil
}
