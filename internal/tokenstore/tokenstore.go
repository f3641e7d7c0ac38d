// Package tokenstore persists the session token between process runs.
package tokenstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned by Load when nothing usable is persisted.
var ErrNoToken = errors.New("no valid token (login required)")

// defaultTTL applies to opaque tokens that carry no exp claim.
const defaultTTL = 15 * time.Minute

// Store is the persisted-token backing store. The session store is its only writer.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
}

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// DefaultPath returns $XDG_CONFIG_HOME/assetdesk/token.json, falling back to ~/.config.
func DefaultPath() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "assetdesk", "token.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "assetdesk", "token.json")
}

// Expiry reads the exp claim without verifying the signature; the backend is the verifier.
func Expiry(token string, now time.Time) time.Time {
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return now.Add(defaultTTL)
	}
	return claims.ExpiresAt.Time
}

// FileStore keeps the token in a JSON file readable only by the owner.
type FileStore struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewFileStore constructs a FileStore at path (DefaultPath when empty).
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	return &FileStore{path: path, now: time.Now}
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

// Load returns the persisted token. Expired tokens are removed and reported as ErrNoToken.
func (s *FileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || s.now().After(tf.ExpiresAt) {
		_ = os.Remove(s.path)
		return "", ErrNoToken
	}
	return tf.AccessToken, nil
}

// Save writes token atomically (temp file + rename).
func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokenFile{AccessToken: token, ExpiresAt: Expiry(token, s.now())}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Delete removes the token file; a missing file is not an error.
func (s *FileStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns a store preloaded with token (may be empty).
func NewMemoryStore(token string) *MemoryStore { return &MemoryStore{token: token} }

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
