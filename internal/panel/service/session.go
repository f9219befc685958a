package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/mailer"
	"github.com/brightforge/sitepanel/internal/panel/store"
	"github.com/brightforge/sitepanel/pkg/cryptox"
	"github.com/brightforge/sitepanel/pkg/idx"
	"github.com/brightforge/sitepanel/pkg/jwtx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidLoginToken  = errors.New("invalid_login_token")
	ErrEmailNotVerified   = errors.New("email_not_verified")
)

// DefaultLoginTokenTTL bounds how long an emailed magic-login link stays valid.
const DefaultLoginTokenTTL = 15 * time.Minute

// TokenBundle is what a successful login or refresh hands back: a signed
// access token for the Authorization header, the opaque refresh credential
// destined for the httpOnly cookie, and the user's public profile.
type TokenBundle struct {
	AccessToken   string
	RefreshOpaque string
	ExpiresIn     time.Duration
	User          domain.Profile
}

// SessionService owns the credential flows: password login (which only
// dispatches a magic link), magic-link exchange, refresh rotation and logout.
type SessionService struct {
	Store  store.Store
	Mailer *mailer.Mailer
	Signer jwtx.Signer

	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	LoginTTL   time.Duration
}

// Login verifies the password and, when it matches, emails a one-time
// magic-login link. No session is created here; the emailed link is the
// second factor that actually signs the user in.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", slog.String("user_id", u.ID))
		return ErrInvalidCredentials
	}

	if !u.Verified() {
		return ErrEmailNotVerified
	}

	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	token := domain.ActionToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Kind:      domain.TokenKindLogin,
		TokenHash: cryptox.FingerprintToken(opaque),
		ExpiresAt: now.Add(s.loginTTL()),
		CreatedAt: now,
	}

	// A fresh link invalidates any earlier one still in an inbox.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.ActionTokens().DeleteUserActionTokens(ctx, u.ID, domain.TokenKindLogin); err != nil {
			return err
		}
		return tx.ActionTokens().CreateActionToken(ctx, token)
	})
	if err != nil {
		return err
	}

	if err := s.Mailer.SendMagicLoginLink(ctx, u.Email, opaque); err != nil {
		l.Error("failed to send magic login link", slog.Any("error", err))
		return err
	}

	return nil
}

// ExchangeLoginToken redeems a magic-login link token for a session.
// The token is single-use; concurrent redemptions race on the consume
// update and only one wins.
func (s *SessionService) ExchangeLoginToken(ctx context.Context, opaque string) (*TokenBundle, error) {
	now := time.Now().UTC()
	hash := cryptox.FingerprintToken(opaque)

	var bundle *TokenBundle
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		token, err := tx.ActionTokens().GetActionTokenByHash(ctx, domain.TokenKindLogin, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidLoginToken
			}
			return err
		}
		if token.Consumed() || token.Expired(now) {
			return ErrInvalidLoginToken
		}

		if err := tx.ActionTokens().ConsumeActionToken(ctx, token.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidLoginToken
			}
			return err
		}

		u, err := tx.Users().GetUserByID(ctx, token.UserID)
		if err != nil {
			return err
		}

		bundle, err = s.issueSession(ctx, tx, u, idx.New().String(), now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

// Refresh rotates the refresh credential: the old token row is revoked and a
// new one created atomically, then a fresh access token is signed. Reusing a
// rotated-out token fails, which is how stolen-cookie replay is detected.
func (s *SessionService) Refresh(ctx context.Context, refreshOpaque string) (*TokenBundle, error) {
	now := time.Now().UTC()
	fp := cryptox.FingerprintToken(refreshOpaque)

	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if rt.Revoked || now.After(rt.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}

	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	var bundle *TokenBundle
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		// Session ID survives rotation so audit trails stay coherent.
		bundle, err = s.issueSession(ctx, tx, u, rt.SessionID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

// Logout revokes the presented refresh credential. Unknown tokens are not an
// error; logout must always succeed from the caller's point of view.
func (s *SessionService) Logout(ctx context.Context, refreshOpaque string) error {
	if refreshOpaque == "" {
		return nil
	}
	fp := cryptox.FingerprintToken(refreshOpaque)
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// issueSession signs an access token and persists a new refresh row within
// the caller's transaction.
func (s *SessionService) issueSession(ctx context.Context, tx store.Tx, u domain.User, sessionID string, now time.Time) (*TokenBundle, error) {
	claims := jwtx.NewAccessClaims(
		u.ID,
		sessionID,
		s.AccessTTL,
		s.Issuer,
		[]string{s.Audience},
		u.Email,
		u.FullName,
		now,
	)
	accessToken, err := s.Signer.Sign(claims)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		SessionID: sessionID,
		ExpiresAt: now.Add(s.RefreshTTL),
		Revoked:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &TokenBundle{
		AccessToken:   accessToken,
		RefreshOpaque: refreshOpaque,
		ExpiresIn:     s.AccessTTL,
		User:          u.Profile(),
	}, nil
}

func (s *SessionService) loginTTL() time.Duration {
	if s.LoginTTL > 0 {
		return s.LoginTTL
	}
	return DefaultLoginTokenTTL
}
