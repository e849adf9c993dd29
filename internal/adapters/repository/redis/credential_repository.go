package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
)

const keyPrefix = "ballot:credential:"

type credentialRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewCredentialRepository stores each credential as one JSON value, so token
// and phone are written and removed together. A zero ttl never expires.
func NewCredentialRepository(client *goredis.Client, ttl time.Duration) ports.CredentialRepository {
	return &credentialRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *credentialRepository) Save(ctx context.Context, key string, cred domain.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

func (r *credentialRepository) Get(ctx context.Context, key string) (*domain.Credential, error) {
	value, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	var cred domain.Credential
	if err := json.Unmarshal(value, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}
	return &cred, nil
}

func (r *credentialRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
