package session

import (
	"context"
	"errors"
	"sync"

	"github.com/ljcl79/shophub/internal/domain"
)

// ErrNoSession means no session has been persisted.
var ErrNoSession = errors.New("no persisted session")

// SessionStore persists the current session under a single durable key.
// The password never passes through here; only the public identity does.
type SessionStore interface {
	Save(ctx context.Context, s domain.Session) error
	Load(ctx context.Context) (*domain.Session, error)
	Clear(ctx context.Context) error
}

// MemorySessionStore keeps the session in process memory. It is the
// fallback when no durable backend is configured.
type MemorySessionStore struct {
	mu      sync.RWMutex
	session *domain.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Save(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &sess
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, ErrNoSession
	}
	sess := *s.session
	return &sess, nil
}

func (s *MemorySessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
