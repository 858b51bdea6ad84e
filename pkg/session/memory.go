package session

import (
	"context"
	"sync"

	"github.com/justcom/justcom-admin/pkg/domain"
)

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	access  string
	refresh string
	user    *domain.User
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Read(_ context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !complete(s.access, s.refresh, s.user) {
		return nil, nil
	}
	return &Session{AccessToken: s.access, RefreshToken: s.refresh, User: *s.user}, nil
}

func (s *MemoryStore) Write(_ context.Context, accessToken, refreshToken string, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = accessToken
	s.refresh = refreshToken
	s.user = &user
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh, s.user = "", "", nil
	return nil
}

func (s *MemoryStore) UpdateAccessToken(_ context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !complete(s.access, s.refresh, s.user) {
		return ErrNoSession
	}
	s.access = accessToken
	return nil
}
