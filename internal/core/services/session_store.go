package services

import (
	"context"
	"fmt"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
)

const (
	VoterNamespace = "voting_app"
	AdminNamespace = "admin_app"
)

type sessionStore struct {
	repo ports.CredentialRepository
	key  string
}

// NewSessionStore scopes repo to one session. namespace keeps voter and admin
// credentials of the same session apart.
func NewSessionStore(repo ports.CredentialRepository, namespace, sessionID string) ports.SessionStore {
	return &sessionStore{
		repo: repo,
		key:  namespace + ":" + sessionID,
	}
}

func (s *sessionStore) Set(ctx context.Context, cred domain.Credential) error {
	if cred.Token == "" {
		return domain.NewError(domain.KindValidation, "empty credential")
	}
	if err := s.repo.Save(ctx, s.key, cred); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (s *sessionStore) Get(ctx context.Context) (*domain.Credential, error) {
	cred, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	return cred, nil
}

func (s *sessionStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}
