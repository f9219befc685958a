package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultAccessTokenTTL keeps bearer tokens short-lived; the SDK renews
	// them in the background well before expiry.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL bounds the opaque credential in the httpOnly
	// cookie. Rotation extends a live session past this without ever
	// extending a single credential.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims carried by panel access tokens. Only add fields; tokens already in
// flight must keep verifying.
type Claims struct {
	jwt.RegisteredClaims

	// SID identifies the session and survives refresh rotations.
	SID string `json:"sid,omitempty"`

	Email string `json:"email,omitempty"`

	// FullName is the user's display name.
	FullName string `json:"name,omitempty"`
}

// NewAccessClaims assembles the claim set for a freshly issued access token.
func NewAccessClaims(
	subject, sid string,
	ttl time.Duration,
	issuer string,
	audience []string,
	email, fullName string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:      sid,
		Email:    email,
		FullName: fullName,
	}
}

// NewJTI produces a random URL-safe token id.
func NewJTI() string {
	var raw [20]byte
	_, _ = rand.Read(raw[:])
	return base64.RawURLEncoding.EncodeToString(raw[:])
}

// ValidateIssuer enforces iss when an expected value is configured.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience requires at least one expected audience in aud. An empty
// expectation enforces nothing.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	if slices.ContainsFunc(expected, func(want string) bool {
		return slices.Contains(c.Audience, want)
	}) {
		return nil
	}
	return ErrAudience
}

// ValidateExpiry checks exp and nbf against the current time.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
