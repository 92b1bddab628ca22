package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Persisted cookie names. The user and token always live and die together.
const (
	cookieNamespace = "@Dashboard-Template:"
	userCookie      = cookieNamespace + "authUser"
	tokenCookie     = cookieNamespace + "authToken"
)

type cookie struct {
	Value     string     `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Store persists the session cookies as a JSON file on disk, the terminal
// counterpart of the browser cookie jar.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) read() (map[string]cookie, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]cookie{}, nil
		}
		return nil, err
	}

	jar := map[string]cookie{}
	if err := json.Unmarshal(data, &jar); err != nil {
		// A corrupt jar is treated as absent, not fatal.
		return map[string]cookie{}, nil
	}
	return jar, nil
}

func (s *Store) write(jar map[string]cookie) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(jar, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load returns the persisted user JSON and token. Expired cookies are
// dropped, so a stale token reads back as absent.
func (s *Store) Load() (userJSON, token string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jar, err := s.read()
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	if c, ok := jar[userCookie]; ok && !expired(c, now) {
		userJSON = c.Value
	}
	if c, ok := jar[tokenCookie]; ok && !expired(c, now) {
		token = c.Value
	}
	return userJSON, token, nil
}

// SetUser persists the serialized user without an expiry.
func (s *Store) SetUser(userJSON string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jar, err := s.read()
	if err != nil {
		return err
	}
	jar[userCookie] = cookie{Value: userJSON}
	return s.write(jar)
}

// SetToken persists the token with an expiry of now+ttl.
func (s *Store) SetToken(token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jar, err := s.read()
	if err != nil {
		return err
	}
	expires := time.Now().Add(ttl)
	jar[tokenCookie] = cookie{Value: token, ExpiresAt: &expires}
	return s.write(jar)
}

// Clear removes both session cookies. Safe to call when nothing is stored.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jar, err := s.read()
	if err != nil {
		return err
	}
	delete(jar, userCookie)
	delete(jar, tokenCookie)
	return s.write(jar)
}

// HasToken reports whether an unexpired token cookie is present.
func (s *Store) HasToken() bool {
	_, token, err := s.Load()
	return err == nil && token != ""
}

func expired(c cookie, now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
