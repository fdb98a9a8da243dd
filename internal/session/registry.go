package session

import (
	"context"
	"errors"
	"sync"

	"github.com/ljcl79/shophub/internal/domain"
)

var (
	ErrRecordNotFound = errors.New("credential record not found")
	ErrEmailTaken     = errors.New("email already registered")
)

// Registry is the pluggable store of registered credentials. Records are
// created by registration only and never mutated or deleted. Implementations
// assign sequential user ids and enforce email uniqueness with exact,
// case-sensitive matching.
type Registry interface {
	FindByEmail(ctx context.Context, email string) (*domain.CredentialRecord, error)
	Insert(ctx context.Context, email, passwordHash, name string) (*domain.CredentialRecord, error)
}

// MemoryRegistry is the default in-memory registry. It resets on every
// process start, which is the documented behavior of the simulated user
// database.
type MemoryRegistry struct {
	mu      sync.RWMutex
	records []domain.CredentialRecord
	nextID  int64
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{nextID: 1}
}

func (r *MemoryRegistry) FindByEmail(_ context.Context, email string) (*domain.CredentialRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.records {
		if r.records[i].Email == email {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *MemoryRegistry) Insert(_ context.Context, email, passwordHash, name string) (*domain.CredentialRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].Email == email {
			return nil, ErrEmailTaken
		}
	}

	rec := domain.CredentialRecord{
		UserID:       r.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}
	r.records = append(r.records, rec)
	r.nextID++
	return &rec, nil
}
