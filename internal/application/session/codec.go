package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"sitesafety/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
)

// Codec decodes session tokens into identities. Signatures are never
// checked here; the backend verifies every request it receives.
type Codec struct {
	now    func() time.Time
	parser *jwt.Parser
}

// NewCodec creates a codec. A nil clock uses time.Now.
func NewCodec(now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{
		now:    now,
		parser: jwt.NewParser(jwt.WithJSONNumber()),
	}
}

// Decode extracts the identity carried by the payload segment of raw
func (c *Codec) Decode(raw string) (*auth.Identity, error) {
	claims := jwt.MapClaims{}
	// An unknown or missing alg only matters for verification
	if _, _, err := c.parser.ParseUnverified(raw, claims); err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return nil, fmt.Errorf("%w: %v", auth.ErrDecode, err)
	}

	name, err := getStringClaim(claims, auth.ClaimName)
	if err != nil {
		return nil, err
	}
	email, err := getStringClaim(claims, auth.ClaimEmail)
	if err != nil {
		return nil, err
	}
	roleValue, err := getStringClaim(claims, auth.ClaimRole)
	if err != nil {
		return nil, err
	}
	subject, err := getStringClaim(claims, auth.ClaimID)
	if err != nil {
		return nil, err
	}
	if subject == "" {
		if subject, err = getStringClaim(claims, auth.ClaimLegacyID); err != nil {
			return nil, err
		}
	}

	identity := &auth.Identity{
		DisplayName: name,
		Email:       email,
		Role:        auth.RoleUser,
		SubjectID:   subject,
		ExpiresAt:   getInt64Claim(claims, auth.ClaimExpiresAt),
	}
	if identity.DisplayName == "" {
		identity.DisplayName = "User"
	}
	if roleValue != "" {
		role, ok := auth.ParseRole(roleValue)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q", auth.ErrDecode, roleValue)
		}
		identity.Role = role
	}
	return identity, nil
}

// IsLive reports whether identity carries an expiry strictly after now.
// A token without expiry is never live.
func (c *Codec) IsLive(identity *auth.Identity) bool {
	if !identity.HasExpiry() {
		return false
	}
	return identity.ExpiresAt > c.now().Unix()
}

// Check decodes raw and returns ErrExpired for a token that is not live
func (c *Codec) Check(raw string) (*auth.Identity, error) {
	identity, err := c.Decode(raw)
	if err != nil {
		return nil, err
	}
	if !c.IsLive(identity) {
		return nil, auth.ErrExpired
	}
	return identity, nil
}

// getStringClaim returns "" for a missing or null claim and fails on any
// other non-string value
func getStringClaim(claims jwt.MapClaims, key string) (string, error) {
	val, ok := claims[key]
	if !ok || val == nil {
		return "", nil
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%w: claim %q is not a string", auth.ErrDecode, key)
	}
	return str, nil
}

// getInt64Claim returns 0 for a missing or non-numeric claim
func getInt64Claim(claims jwt.MapClaims, key string) int64 {
	num, ok := claims[key].(json.Number)
	if !ok {
		return 0
	}
	if i, err := num.Int64(); err == nil {
		return i
	}
	f, err := num.Float64()
	switch {
	case err != nil || math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.Floor(f))
}
