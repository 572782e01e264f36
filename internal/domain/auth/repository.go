package auth

import (
	"context"
	"errors"
)

// ErrTokenNotFound is returned by a vault when no token is stored under a key
var ErrTokenNotFound = errors.New("token not found")

// TokenVault defines the interface for durable token persistence.
// Keys are opaque, one per visitor.
type TokenVault interface {
	// LoadToken returns the token stored under key or ErrTokenNotFound
	LoadToken(ctx context.Context, key string) (string, error)

	// SaveToken stores token under key, replacing any previous value
	SaveToken(ctx context.Context, key, token string) error

	// DeleteToken removes the token under key. Deleting a missing key is not an error.
	DeleteToken(ctx context.Context, key string) error
}

// TokenSlot is the single durable slot a session store synchronizes with
type TokenSlot interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// VaultSlot binds a vault to one key
type VaultSlot struct {
	Vault TokenVault
	Key   string
}

func (s VaultSlot) Load(ctx context.Context) (string, error) {
	return s.Vault.LoadToken(ctx, s.Key)
}

func (s VaultSlot) Save(ctx context.Context, token string) error {
	return s.Vault.SaveToken(ctx, s.Key, token)
}

func (s VaultSlot) Clear(ctx context.Context) error {
	return s.Vault.DeleteToken(ctx, s.Key)
}
