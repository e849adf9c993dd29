package ports

import (
	"context"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
)

// CredentialRepository persists credentials under opaque keys. Implementations
// store token and phone as a single record so Delete removes both at once.
type CredentialRepository interface {
	Save(ctx context.Context, key string, cred domain.Credential) error
	Get(ctx context.Context, key string) (*domain.Credential, error) // nil, nil when absent
	Delete(ctx context.Context, key string) error
}

// SessionStore holds the credential of exactly one session.
type SessionStore interface {
	Set(ctx context.Context, cred domain.Credential) error
	Get(ctx context.Context) (*domain.Credential, error) // nil, nil when absent
	Clear(ctx context.Context) error
}
