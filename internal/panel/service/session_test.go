package service

import (
	"context"
	"testing"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/pkg/cryptox"
	"github.com/brightforge/sitepanel/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestLoginDispatchesMagicLink(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, box := newCaptureMailer(t)
	svc := newSessionService(t, st, m)

	u := createVerifiedUser(t, st, "alice@example.com", "Passw0rd!")

	require.NoError(t, svc.Login(ctx, "alice@example.com", "Passw0rd!"))
	email := box.Last(t)
	require.Equal(t, "alice@example.com", email.To)

	token := email.Token(t)

	t.Run("exchange yields a session", func(t *testing.T) {
		bundle, err := svc.ExchangeLoginToken(ctx, token)
		require.NoError(t, err)
		require.NotEmpty(t, bundle.AccessToken)
		require.NotEmpty(t, bundle.RefreshOpaque)
		require.Equal(t, u.ID, bundle.User.ID)
		require.True(t, bundle.User.EmailVerified)
	})

	t.Run("link is single use", func(t *testing.T) {
		_, err := svc.ExchangeLoginToken(ctx, token)
		require.ErrorIs(t, err, ErrInvalidLoginToken)
	})
}

func TestLoginNewLinkInvalidatesOld(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, box := newCaptureMailer(t)
	svc := newSessionService(t, st, m)

	createVerifiedUser(t, st, "alice@example.com", "Passw0rd!")

	require.NoError(t, svc.Login(ctx, "alice@example.com", "Passw0rd!"))
	first := box.Last(t).Token(t)

	require.NoError(t, svc.Login(ctx, "alice@example.com", "Passw0rd!"))
	second := box.Last(t).Token(t)
	require.NotEqual(t, first, second)

	_, err := svc.ExchangeLoginToken(ctx, first)
	require.ErrorIs(t, err, ErrInvalidLoginToken)

	_, err = svc.ExchangeLoginToken(ctx, second)
	require.NoError(t, err)
}

func TestLoginRejections(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, box := newCaptureMailer(t)
	svc := newSessionService(t, st, m)

	createVerifiedUser(t, st, "alice@example.com", "Passw0rd!")

	t.Run("unknown email", func(t *testing.T) {
		err := svc.Login(ctx, "nobody@example.com", "Passw0rd!")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		err := svc.Login(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unverified email", func(t *testing.T) {
		hash, err := cryptox.HashPassword("Passw0rd!")
		require.NoError(t, err)
		now := time.Now().UTC()
		require.NoError(t, st.Users().CreateUser(ctx, domain.User{
			ID: idx.New().String(), FullName: "New User", Email: "new@example.com",
			PasswordHash: hash, CreatedAt: now, UpdatedAt: now,
		}))

		err = svc.Login(ctx, "new@example.com", "Passw0rd!")
		require.ErrorIs(t, err, ErrEmailNotVerified)
	})

	require.Zero(t, box.Count(), "rejected logins must not send email")
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, box := newCaptureMailer(t)
	svc := newSessionService(t, st, m)

	createVerifiedUser(t, st, "alice@example.com", "Passw0rd!")
	require.NoError(t, svc.Login(ctx, "alice@example.com", "Passw0rd!"))

	bundle, err := svc.ExchangeLoginToken(ctx, box.Last(t).Token(t))
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, bundle.RefreshOpaque)
	require.NoError(t, err)
	require.NotEqual(t, bundle.RefreshOpaque, rotated.RefreshOpaque)

	t.Run("rotated-out credential is dead", func(t *testing.T) {
		_, err := svc.Refresh(ctx, bundle.RefreshOpaque)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("current credential still rotates", func(t *testing.T) {
		again, err := svc.Refresh(ctx, rotated.RefreshOpaque)
		require.NoError(t, err)
		require.NotEmpty(t, again.AccessToken)
	})

	t.Run("garbage credential rejected", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not-a-real-token")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestLogoutRevokesRefresh(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, box := newCaptureMailer(t)
	svc := newSessionService(t, st, m)

	createVerifiedUser(t, st, "alice@example.com", "Passw0rd!")
	require.NoError(t, svc.Login(ctx, "alice@example.com", "Passw0rd!"))

	bundle, err := svc.ExchangeLoginToken(ctx, box.Last(t).Token(t))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, bundle.RefreshOpaque))

	_, err = svc.Refresh(ctx, bundle.RefreshOpaque)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	t.Run("logout is idempotent", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, bundle.RefreshOpaque))
		require.NoError(t, svc.Logout(ctx, "unknown-token"))
		require.NoError(t, svc.Logout(ctx, ""))
	})
}

func TestExpiredLoginTokenRejected(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, box := newCaptureMailer(t)
	svc := newSessionService(t, st, m)
	svc.LoginTTL = time.Nanosecond // every link expires immediately

	createVerifiedUser(t, st, "alice@example.com", "Passw0rd!")
	require.NoError(t, svc.Login(ctx, "alice@example.com", "Passw0rd!"))

	_, err := svc.ExchangeLoginToken(ctx, box.Last(t).Token(t))
	require.ErrorIs(t, err, ErrInvalidLoginToken)
}
