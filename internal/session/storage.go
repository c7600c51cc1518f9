// Package session persists the logged-in user's credentials between runs.
// It plays the role browser local storage plays for the web frontend: two
// slots, one for the raw bearer token and one for the serialized user record.
//
// The two slots are always written and cleared together. A token without a
// user record (or the reverse) means the session is broken, so Save and
// Clear never touch one slot without the other.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/siddharth-200231/foodapp-go/internal/models"
)

// Storage is the two-slot credential store the app state and the API client
// share. Token is read on every outbound request; User is read once at
// startup to rehydrate the session.
type Storage interface {
	// Token returns the persisted bearer token, or "" when anonymous.
	Token() string
	// User returns the persisted user record, or nil when anonymous.
	User() *models.User
	// Save persists token and user as a pair.
	Save(token string, user *models.User) error
	// Clear removes both slots.
	Clear() error
}

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// FileStorage keeps the two slots as files under a directory, so a session
// survives process restarts the way local storage survives page reloads.
type FileStorage struct {
	mu  sync.Mutex
	dir string
}

// NewFileStorage creates the directory if needed and returns a store over it.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *FileStorage) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	return &user
}

func (s *FileStorage) Save(token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	// Token holds credentials, so keep it owner-readable only.
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token slot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), data, 0o600); err != nil {
		// Keep the pair invariant: if the user slot failed, drop the token
		// we just wrote rather than leaving half a session behind.
		os.Remove(filepath.Join(s.dir, tokenFile))
		return fmt.Errorf("write user slot: %w", err)
	}
	return nil
}

func (s *FileStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, tokenFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear token slot: %w", err)
	}
	if err := os.Remove(filepath.Join(s.dir, userFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear user slot: %w", err)
	}
	return nil
}

// MemoryStorage is an in-process Storage, used by tests and anywhere a
// throwaway session is fine.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
	user  *models.User
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemoryStorage) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *MemoryStorage) Save(token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if user != nil {
		u := *user
		s.user = &u
	} else {
		s.user = nil
	}
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}
