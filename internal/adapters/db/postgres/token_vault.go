package postgres

import (
	"context"
	"errors"
	"fmt"

	"sitesafety/internal/domain/auth"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenVault is a Postgres implementation of auth.TokenVault backed by the
// console_tokens table
type TokenVault struct {
	pool *pgxpool.Pool
}

// NewTokenVault constructs a TokenVault
func NewTokenVault(pool *pgxpool.Pool) *TokenVault { return &TokenVault{pool: pool} }

func (v *TokenVault) LoadToken(ctx context.Context, key string) (string, error) {
	var token string
	err := v.pool.QueryRow(ctx, `SELECT token FROM console_tokens WHERE visitor_key=$1`, key).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", auth.ErrTokenNotFound
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func (v *TokenVault) SaveToken(ctx context.Context, key, token string) error {
	_, err := v.pool.Exec(ctx, `INSERT INTO console_tokens (visitor_key,token,updated_at) VALUES ($1,$2,now())
		ON CONFLICT (visitor_key) DO UPDATE SET token=EXCLUDED.token, updated_at=now()`, key, token)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (v *TokenVault) DeleteToken(ctx context.Context, key string) error {
	if _, err := v.pool.Exec(ctx, `DELETE FROM console_tokens WHERE visitor_key=$1`, key); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
