package domain

import "time"

// RefreshToken models the stored refresh credential record. Only the SHA-256
// fingerprint of the opaque cookie value is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	SessionID string // stable across rotations of the same login session
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenKind identifies the purpose of a one-time emailed token.
type TokenKind string

const (
	// TokenKindLogin is the one-time magic-login link token.
	TokenKindLogin TokenKind = "login"
	// TokenKindVerifyEmail is the account email-verification token.
	TokenKindVerifyEmail TokenKind = "verify_email"
	// TokenKindPasswordReset is the password-reset token.
	TokenKindPasswordReset TokenKind = "password_reset"
)

// ActionToken is a single-use token delivered out of band (email link).
// It is consumed exactly once; expired verify-email tokens are kept around
// so an expired link can be told apart from an unknown one.
type ActionToken struct {
	ID         string
	UserID     string
	Kind       TokenKind
	TokenHash  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// Expired reports whether the token's validity window has passed.
func (t ActionToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }

// Consumed reports whether the token has already been used.
func (t ActionToken) Consumed() bool { return t.ConsumedAt != nil }
