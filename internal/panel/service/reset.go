package service

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/mailer"
	"github.com/brightforge/sitepanel/internal/panel/store"
	"github.com/brightforge/sitepanel/pkg/cryptox"
	"github.com/brightforge/sitepanel/pkg/idx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

var (
	ErrWeakPassword     = errors.New("weak_password")
	ErrPasswordMismatch = errors.New("password_mismatch")
)

// DefaultResetTokenTTL bounds how long a password-reset link stays valid.
const DefaultResetTokenTTL = 1 * time.Hour

// MinPasswordLength is the floor for new passwords.
const MinPasswordLength = 8

// ResetService owns the forgot-password flow.
type ResetService struct {
	Store  store.Store
	Mailer *mailer.Mailer

	ResetTTL time.Duration
}

func (s *ResetService) resetTTL() time.Duration {
	if s.ResetTTL > 0 {
		return s.ResetTTL
	}
	return DefaultResetTokenTTL
}

// Forgot emails a reset link if the address is registered. It always reports
// success so the endpoint cannot be used to probe for accounts.
func (s *ResetService) Forgot(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	token := domain.ActionToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Kind:      domain.TokenKindPasswordReset,
		TokenHash: cryptox.FingerprintToken(opaque),
		ExpiresAt: now.Add(s.resetTTL()),
		CreatedAt: now,
	}

	// Only the newest link works; earlier ones are invalidated.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.ActionTokens().DeleteUserActionTokens(ctx, u.ID, domain.TokenKindPasswordReset); err != nil {
			return err
		}
		return tx.ActionTokens().CreateActionToken(ctx, token)
	})
	if err != nil {
		return err
	}

	if err := s.Mailer.SendPasswordResetLink(ctx, u.Email, opaque); err != nil {
		l.Error("failed to send password reset email", slog.Any("error", err), slog.String("user_id", u.ID))
		return err
	}
	return nil
}

// VerifyToken checks a reset link and returns the account it belongs to.
// The token is not consumed here; consumption happens when the new password
// is actually submitted.
func (s *ResetService) VerifyToken(ctx context.Context, opaque string) (string, error) {
	now := time.Now().UTC()
	hash := cryptox.FingerprintToken(opaque)

	token, err := s.Store.ActionTokens().GetActionTokenByHash(ctx, domain.TokenKindPasswordReset, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	if token.Consumed() {
		return "", ErrTokenNotFound
	}
	if token.Expired(now) {
		return "", ErrTokenExpired
	}
	return token.UserID, nil
}

// Reset sets a new password for the user. It requires that an unconsumed,
// unexpired reset token exists for the account (the flow's first step), then
// consumes it, updates the hash and revokes every live refresh token so any
// stolen sessions die with the old password.
func (s *ResetService) Reset(ctx context.Context, userID, newPassword string) error {
	if err := ValidatePasswordPolicy(newPassword, newPassword); err != nil {
		return err
	}

	now := time.Now().UTC()

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		token, err := tx.ActionTokens().GetLatestUserActionToken(ctx, userID, domain.TokenKindPasswordReset)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTokenNotFound
			}
			return err
		}
		if token.Consumed() {
			return ErrTokenNotFound
		}
		if token.Expired(now) {
			return ErrTokenExpired
		}

		if err := tx.ActionTokens().ConsumeActionToken(ctx, token.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTokenNotFound
			}
			return err
		}

		hash, err := cryptox.HashPassword(newPassword)
		if err != nil {
			return err
		}
		if err := tx.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
			return err
		}

		return tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
	})
}

// ValidatePasswordPolicy enforces the panel's password rules: at least
// MinPasswordLength characters with an uppercase letter, a lowercase letter
// and a digit, and both entries matching.
func ValidatePasswordPolicy(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
