package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/mailer"
	"github.com/brightforge/sitepanel/internal/panel/store"
	"github.com/brightforge/sitepanel/pkg/cryptox"
	"github.com/brightforge/sitepanel/pkg/idx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

var (
	ErrEmailTaken = errors.New("email_taken")

	// ErrTokenExpired means the link was once valid but its window has
	// passed. Distinct from ErrTokenNotFound so the UI can offer a resend.
	ErrTokenExpired  = errors.New("token_expired")
	ErrTokenNotFound = errors.New("token_not_found")
)

// DefaultVerifyTokenTTL bounds how long an email-verification link stays valid.
const DefaultVerifyTokenTTL = 24 * time.Hour

// AccountService owns registration and email verification.
type AccountService struct {
	Store  store.Store
	Mailer *mailer.Mailer

	VerifyTTL time.Duration
}

// Register creates an unverified account and emails a verification link.
func (s *AccountService) Register(ctx context.Context, fullName, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if err := ValidatePasswordPolicy(password, password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	if err := s.issueVerification(ctx, u); err != nil {
		// The account exists; the user can ask for a resend.
		l.Error("failed to send verification email", slog.Any("error", err), slog.String("user_id", u.ID))
	}

	return u, nil
}

// VerifyEmail redeems a verification link. Expired tokens are reported as
// ErrTokenExpired rather than being cleaned up on read, so the caller can
// tell an expired link apart from a bogus one.
func (s *AccountService) VerifyEmail(ctx context.Context, opaque string) error {
	now := time.Now().UTC()
	hash := cryptox.FingerprintToken(opaque)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		token, err := tx.ActionTokens().GetActionTokenByHash(ctx, domain.TokenKindVerifyEmail, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTokenNotFound
			}
			return err
		}

		if token.Expired(now) {
			return ErrTokenExpired
		}
		if token.Consumed() {
			// Re-clicking an already-used link is fine; the address is verified.
			return nil
		}

		if err := tx.ActionTokens().ConsumeActionToken(ctx, token.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil // lost the race to another click, same outcome
			}
			return err
		}

		return tx.Users().MarkEmailVerified(ctx, token.UserID, now)
	})
}

// ResendVerificationByToken issues a fresh verification link for the account
// behind an old link, even when that link is expired or already consumed.
// This is what the "resend" button on the expired-link page calls.
func (s *AccountService) ResendVerificationByToken(ctx context.Context, opaque string) error {
	hash := cryptox.FingerprintToken(opaque)

	token, err := s.Store.ActionTokens().GetActionTokenByHash(ctx, domain.TokenKindVerifyEmail, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenNotFound
		}
		return err
	}

	u, err := s.Store.Users().GetUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	if u.Verified() {
		return nil
	}

	return s.issueVerification(ctx, u)
}

// ResendVerificationByEmail issues a fresh verification link if the address
// belongs to an unverified account. It always reports success so the
// endpoint cannot be used to probe which addresses are registered.
func (s *AccountService) ResendVerificationByEmail(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if u.Verified() {
		return nil
	}

	if err := s.issueVerification(ctx, u); err != nil {
		l.Error("failed to resend verification email", slog.Any("error", err), slog.String("user_id", u.ID))
		return err
	}
	return nil
}

func (s *AccountService) issueVerification(ctx context.Context, u domain.User) error {
	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	token := domain.ActionToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Kind:      domain.TokenKindVerifyEmail,
		TokenHash: cryptox.FingerprintToken(opaque),
		ExpiresAt: now.Add(s.verifyTTL()),
		CreatedAt: now,
	}

	if err := s.Store.ActionTokens().CreateActionToken(ctx, token); err != nil {
		return err
	}

	return s.Mailer.SendVerificationLink(ctx, u.Email, opaque)
}

func (s *AccountService) verifyTTL() time.Duration {
	if s.VerifyTTL > 0 {
		return s.VerifyTTL
	}
	return DefaultVerifyTokenTTL
}
