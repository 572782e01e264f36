package auth

import "errors"

// Claim names read from the session token payload
const (
	ClaimName      = "name"
	ClaimEmail     = "email"
	ClaimRole      = "role"
	ClaimID        = "id"
	ClaimLegacyID  = "_id"
	ClaimExpiresAt = "exp"
)

var (
	// ErrDecode indicates that a token could not be decoded into an Identity
	ErrDecode = errors.New("session token could not be decoded")

	// ErrExpired indicates a well formed token whose expiry is missing or in the past
	ErrExpired = errors.New("session token expired")
)

// Identity is the decoded view of a session token payload.
// It is replaced wholesale whenever a new token is decoded.
type Identity struct {
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	SubjectID   string `json:"id,omitempty"`  // empty when the token carries no id
	ExpiresAt   int64  `json:"exp,omitempty"` // epoch seconds, 0 when absent
}

// HasSubject reports whether the token carried a subject id
func (i *Identity) HasSubject() bool {
	return i != nil && i.SubjectID != ""
}

// HasExpiry reports whether the token carried a numeric expiry
func (i *Identity) HasExpiry() bool {
	return i != nil && i.ExpiresAt != 0
}

// IsAdmin checks if the identity has the Admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
