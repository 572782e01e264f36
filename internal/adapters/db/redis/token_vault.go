package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sitesafety/internal/domain/auth"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces console tokens in a shared redis
const DefaultPrefix = "ssm:token:"

// TokenVault is a redis implementation of auth.TokenVault. A zero ttl keeps
// tokens until they are deleted.
type TokenVault struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewTokenVault constructs a TokenVault
func NewTokenVault(client goredis.UniversalClient, prefix string, ttl time.Duration) *TokenVault {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &TokenVault{client: client, prefix: prefix, ttl: ttl}
}

func (v *TokenVault) LoadToken(ctx context.Context, key string) (string, error) {
	token, err := v.client.Get(ctx, v.prefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", auth.ErrTokenNotFound
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func (v *TokenVault) SaveToken(ctx context.Context, key, token string) error {
	if err := v.client.Set(ctx, v.prefix+key, token, v.ttl).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (v *TokenVault) DeleteToken(ctx context.Context, key string) error {
	if err := v.client.Del(ctx, v.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
