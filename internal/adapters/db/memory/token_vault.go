package memory

import (
	"context"
	"sync"

	"sitesafety/internal/domain/auth"
)

// TokenVault is an in-memory implementation of auth.TokenVault. Tokens do
// not survive a restart.
type TokenVault struct {
	mu     sync.RWMutex
	tokens map[string]string // vault key -> raw token
}

// NewTokenVault creates a new in-memory token vault
func NewTokenVault() *TokenVault {
	return &TokenVault{tokens: make(map[string]string)}
}

// LoadToken retrieves the token stored under key
func (v *TokenVault) LoadToken(_ context.Context, key string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	token, exists := v.tokens[key]
	if !exists {
		return "", auth.ErrTokenNotFound
	}
	return token, nil
}

// SaveToken stores token under key
func (v *TokenVault) SaveToken(_ context.Context, key, token string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.tokens[key] = token
	return nil
}

// DeleteToken removes the token under key
func (v *TokenVault) DeleteToken(_ context.Context, key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.tokens, key)
	return nil
}

// Len returns the number of stored tokens
func (v *TokenVault) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.tokens)
}
