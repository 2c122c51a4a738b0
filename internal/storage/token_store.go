package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// TokenStore persists the single bearer token across process restarts.
type TokenStore interface {
	// Load returns the persisted token, or "" when none is stored.
	Load() (string, error)
	Save(token string) error
	// Clear removes the persisted token. Clearing an empty store is not an
	// error.
	Clear() error
}

type fileTokenStore struct {
	path string
	log  *logrus.Logger
}

// NewFileTokenStore stores the token in a single file, created with
// owner-only permissions.
func NewFileTokenStore(path string, logger *logrus.Logger) TokenStore {
	return &fileTokenStore{
		path: path,
		log:  logger,
	}
}

func (s *fileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debugf("TokenStore: No persisted token at %s", s.path)
			return "", nil
		}
		s.log.Errorf("TokenStore: Failed to read token file %s: %v", s.path, err)
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *fileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.log.Errorf("TokenStore: Failed to create token directory for %s: %v", s.path, err)
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		s.log.Errorf("TokenStore: Failed to write token file %s: %v", s.path, err)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	s.log.Debugf("TokenStore: Token persisted to %s", s.path)
	return nil
}

func (s *fileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Errorf("TokenStore: Failed to remove token file %s: %v", s.path, err)
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	s.log.Debugf("TokenStore: Token cleared from %s", s.path)
	return nil
}

// MemoryTokenStore keeps the token in memory only. Used by tests and by
// callers that opt out of persistence.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
