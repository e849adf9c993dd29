package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
)

type entry struct {
	cred      domain.Credential
	expiresAt time.Time
}

type credentialRepository struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewCredentialRepository keeps credentials in process memory. A zero ttl
// keeps them until deleted.
func NewCredentialRepository(ttl time.Duration) ports.CredentialRepository {
	return &credentialRepository{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *credentialRepository) Save(ctx context.Context, key string, cred domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := entry{cred: cred}
	if r.ttl > 0 {
		e.expiresAt = r.now().Add(r.ttl)
	}
	r.entries[key] = e
	return nil
}

func (r *credentialRepository) Get(ctx context.Context, key string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt) {
		delete(r.entries, key)
		return nil, nil
	}
	cred := e.cred
	return &cred, nil
}

func (r *credentialRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}
