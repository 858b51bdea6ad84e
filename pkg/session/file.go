package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/justcom/justcom-admin/pkg/domain"
)

// fileRecord mirrors the three fixed keys. The user is kept as a serialized
// JSON string so the layout matches the browser dashboard's local storage.
type fileRecord struct {
	AccessToken  string `json:"justcom_access_token,omitempty"`
	RefreshToken string `json:"justcom_refresh_token,omitempty"`
	User         string `json:"justcom_user,omitempty"`
}

// FileStore persists the session as a single JSON document.
// Writes go to a temp file that is renamed over the target, so a reader sees
// either the old record or the new one.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the file at path.
// The file and its parent directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ Store = (*FileStore)(nil)

// DefaultFilePath returns ~/.justcom/session.json.
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".justcom", "session.json"), nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Read(_ context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.load()
	if err != nil {
		return nil, err
	}
	return rec.session(), nil
}

func (s *FileStore) Write(_ context.Context, accessToken, refreshToken string, user domain.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session.FileStore.Write: marshal user: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(fileRecord{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         string(userJSON),
	})
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session.FileStore.Clear: %w", err)
	}
	return nil
}

func (s *FileStore) UpdateAccessToken(_ context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.load()
	if err != nil {
		return err
	}
	if rec.session() == nil {
		return ErrNoSession
	}
	rec.AccessToken = accessToken
	return s.save(rec)
}

func (s *FileStore) load() (fileRecord, error) {
	var rec fileRecord
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return rec, nil
	}
	if err != nil {
		return rec, fmt.Errorf("session.FileStore: read: %w", err)
	}
	// A record that does not parse is treated as no session rather than an
	// error, the same way an unreadable user blob is.
	if json.Unmarshal(data, &rec) != nil {
		return fileRecord{}, nil
	}
	return rec, nil
}

func (s *FileStore) save(rec fileRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("session.FileStore: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session.FileStore: create dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session.FileStore: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("session.FileStore: rename temp file: %w", err)
	}
	return nil
}

func (r fileRecord) session() *Session {
	user := decodeUser(r.User)
	if !complete(r.AccessToken, r.RefreshToken, user) {
		return nil
	}
	return &Session{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken, User: *user}
}

// decodeUser returns nil for an empty or malformed user blob.
func decodeUser(raw string) *domain.User {
	if raw == "" {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}
