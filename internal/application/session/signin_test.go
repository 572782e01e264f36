package session

import (
	"context"
	"errors"
	"testing"

	"sitesafety/internal/domain/auth"
	"sitesafety/internal/domain/safety"
)

// mockAuthenticator implements Authenticator for testing
type mockAuthenticator struct {
	resp *auth.LoginResponse
	err  error
	got  auth.LoginRequest
}

func (m *mockAuthenticator) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	m.got = req
	return m.resp, m.err
}

func (m *mockAuthenticator) Register(ctx context.Context, req auth.RegisterRequest) error {
	return m.err
}

func TestSignIn(t *testing.T) {
	live := liveToken(t, "Admin")
	backendErr := &safety.RequestError{Method: "POST", Path: "/auth/login", Status: 401, Message: "Invalid credentials"}

	tests := []struct {
		name    string
		authn   *mockAuthenticator
		wantErr error
	}{
		{"success", &mockAuthenticator{resp: &auth.LoginResponse{Token: live, User: &auth.LoginUser{Name: "Alice", Role: auth.RoleAdmin}}}, nil},
		{"backend failure", &mockAuthenticator{err: backendErr}, safety.ErrRequestFailed},
		{"missing token", &mockAuthenticator{resp: &auth.LoginResponse{User: &auth.LoginUser{Name: "Alice"}}}, ErrInvalidResponse},
		{"missing user", &mockAuthenticator{resp: &auth.LoginResponse{Token: live}}, ErrInvalidResponse},
		{"nil response", &mockAuthenticator{}, ErrInvalidResponse},
		{"expired token", &mockAuthenticator{resp: &auth.LoginResponse{Token: expiredToken(t), User: &auth.LoginUser{Name: "Alice"}}}, ErrSessionRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(&mockSlot{})
			store.Initialize(context.Background())

			user, err := SignIn(context.Background(), store, tt.authn, "  alice@site.io ", "pw")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				if store.Identity() != nil {
					t.Errorf("Expected no session after a failed sign in")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if user.Name != "Alice" {
				t.Errorf("Expected user Alice, got %s", user.Name)
			}
			if tt.authn.got.Email != "alice@site.io" {
				t.Errorf("Expected trimmed email, got '%s'", tt.authn.got.Email)
			}
			if store.Identity() == nil {
				t.Errorf("Expected a session after sign in")
			}
		})
	}
}
