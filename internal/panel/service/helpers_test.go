package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/mailer"
	"github.com/brightforge/sitepanel/internal/panel/store"
	"github.com/brightforge/sitepanel/internal/panel/store/drivers/sqlite"
	"github.com/brightforge/sitepanel/pkg/cryptox"
	"github.com/brightforge/sitepanel/pkg/idx"
	"github.com/brightforge/sitepanel/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://app.test"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

type sentEmail struct {
	To      string
	Subject string
	Text    string
}

// Token pulls the opaque token out of the emailed link, which is always the
// last path segment.
func (e sentEmail) Token(t *testing.T) string {
	t.Helper()

	re := regexp.MustCompile(`https?://\S+`)
	link := re.FindString(e.Text)
	require.NotEmpty(t, link, "email contains no link: %q", e.Text)

	parts := strings.Split(strings.TrimRight(link, "."), "/")
	return parts[len(parts)-1]
}

type outbox struct {
	mu     sync.Mutex
	emails []sentEmail
}

func (o *outbox) Last(t *testing.T) sentEmail {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.emails, "no email was sent")
	return o.emails[len(o.emails)-1]
}

func (o *outbox) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.emails)
}

// newCaptureMailer returns a fully configured Mailer whose Postmark endpoint
// is a local server recording every message.
func newCaptureMailer(t *testing.T) (*mailer.Mailer, *outbox) {
	t.Helper()

	box := &outbox{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload struct {
			To       string `json:"To"`
			Subject  string `json:"Subject"`
			TextBody string `json:"TextBody"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))

		box.mu.Lock()
		box.emails = append(box.emails, sentEmail{To: payload.To, Subject: payload.Subject, Text: payload.TextBody})
		box.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	m := mailer.New("test-token", "panel@test.local", testBaseURL, mailer.WithAPIURL(srv.URL))
	return m, box
}

func newTestSigner(t *testing.T) jwtx.Signer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key", priv)
	require.NoError(t, err)
	return signer
}

func newSessionService(t *testing.T, st store.Store, m *mailer.Mailer) *SessionService {
	t.Helper()
	return &SessionService{
		Store:      st,
		Mailer:     m,
		Signer:     newTestSigner(t),
		Issuer:     "sitepanel",
		Audience:   "sitepanel-dashboard",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
}

func createVerifiedUser(t *testing.T, st store.Store, email, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	verified := now
	u := domain.User{
		ID:              idx.New().String(),
		FullName:        "Test User",
		Email:           email,
		PasswordHash:    hash,
		EmailVerifiedAt: &verified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
