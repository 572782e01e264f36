package session

import (
	"context"
	"errors"
	"strings"

	"sitesafety/internal/domain/auth"
)

var (
	// ErrInvalidResponse indicates a login response without token or user
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrSessionRejected indicates the store refused the token the backend issued
	ErrSessionRejected = errors.New("session token rejected")
)

// Authenticator is the backend surface used by the login and register screens
type Authenticator interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	Register(ctx context.Context, req auth.RegisterRequest) error
}

// SignIn exchanges credentials for a token and adopts it in store. Backend
// failures are returned unchanged.
func SignIn(ctx context.Context, store *Store, authn Authenticator, email, password string) (*auth.LoginUser, error) {
	resp, err := authn.Login(ctx, auth.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Token == "" || resp.User == nil {
		return nil, ErrInvalidResponse
	}
	if !store.Login(ctx, resp.Token) {
		return nil, ErrSessionRejected
	}
	return resp.User, nil
}
