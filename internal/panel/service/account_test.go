package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndVerifyEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, box := newCaptureMailer(t)
	svc := &AccountService{Store: st, Mailer: m}

	u, err := svc.Register(ctx, "Alice Example", "Alice@Example.com ", "Passw0rd!")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
	require.False(t, u.Verified())

	token := box.Last(t).Token(t)

	require.NoError(t, svc.VerifyEmail(ctx, token))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.Verified())

	t.Run("re-clicking a used link succeeds", func(t *testing.T) {
		require.NoError(t, svc.VerifyEmail(ctx, token))
	})
}

func TestRegisterRejections(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, _ := newCaptureMailer(t)
	svc := &AccountService{Store: st, Mailer: m}

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "Passw0rd!")
	require.NoError(t, err)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "Other Alice", "alice@example.com", "Passw0rd!")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Register(ctx, "Bob", "bob@example.com", "password")
		require.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestVerifyEmailExpired(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, box := newCaptureMailer(t)
	svc := &AccountService{Store: st, Mailer: m, VerifyTTL: time.Nanosecond}

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "Passw0rd!")
	require.NoError(t, err)

	token := box.Last(t).Token(t)

	require.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrTokenExpired)

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.Verified())

	t.Run("expired link still reports expired, not unknown", func(t *testing.T) {
		require.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrTokenExpired)
	})

	t.Run("resend from the expired link mints a working one", func(t *testing.T) {
		svc.VerifyTTL = DefaultVerifyTokenTTL
		require.NoError(t, svc.ResendVerificationByToken(ctx, token))

		fresh := box.Last(t).Token(t)
		require.NotEqual(t, token, fresh)
		require.NoError(t, svc.VerifyEmail(ctx, fresh))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.Verified())
	})
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, _ := newCaptureMailer(t)
	svc := &AccountService{Store: st, Mailer: m}

	require.ErrorIs(t, svc.VerifyEmail(ctx, "no-such-token"), ErrTokenNotFound)
	require.ErrorIs(t, svc.ResendVerificationByToken(ctx, "no-such-token"), ErrTokenNotFound)
}

func TestResendVerificationByEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m, box := newCaptureMailer(t)
	svc := &AccountService{Store: st, Mailer: m}

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "Passw0rd!")
	require.NoError(t, err)
	sentAtRegister := box.Count()

	t.Run("unverified account gets a fresh link", func(t *testing.T) {
		require.NoError(t, svc.ResendVerificationByEmail(ctx, "alice@example.com"))
		require.Equal(t, sentAtRegister+1, box.Count())
	})

	t.Run("unknown address reports success without sending", func(t *testing.T) {
		before := box.Count()
		require.NoError(t, svc.ResendVerificationByEmail(ctx, "ghost@example.com"))
		require.Equal(t, before, box.Count())
	})

	t.Run("verified account is left alone", func(t *testing.T) {
		require.NoError(t, svc.VerifyEmail(ctx, box.Last(t).Token(t)))

		before := box.Count()
		require.NoError(t, svc.ResendVerificationByEmail(ctx, "alice@example.com"))
		require.Equal(t, before, box.Count())
	})
}
