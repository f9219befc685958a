package http

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/mailer"
	"github.com/brightforge/sitepanel/internal/panel/service"
	"github.com/brightforge/sitepanel/internal/panel/store"
	"github.com/brightforge/sitepanel/internal/panel/store/drivers/sqlite"
	"github.com/brightforge/sitepanel/pkg/cryptox"
	"github.com/brightforge/sitepanel/pkg/idx"
	"github.com/brightforge/sitepanel/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv   *httptest.Server
	st    store.Store
	httpc *http.Client

	mu     sync.Mutex
	emails []string // text bodies, in order
}

func (e *testEnv) lastToken(t *testing.T) string {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	require.NotEmpty(t, e.emails, "no email was sent")

	link := regexp.MustCompile(`https?://\S+`).FindString(e.emails[len(e.emails)-1])
	require.NotEmpty(t, link)
	parts := strings.Split(link, "/")
	return parts[len(parts)-1]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	env := &testEnv{st: st}

	mailSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			TextBody string `json:"TextBody"`
		}
		_ = json.Unmarshal(body, &payload)
		env.mu.Lock()
		env.emails = append(env.emails, payload.TextBody)
		env.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(mailSrv.Close)

	m := mailer.New("test-token", "panel@test.local", "http://app.test", mailer.WithAPIURL(mailSrv.URL))

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", priv)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierEdDSA(pub, "sitepanel", []string{"sitepanel-dashboard"})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(verifier, "test", false, st, logger)
	router.SessionService = &service.SessionService{
		Store: st, Mailer: m, Signer: signer,
		Issuer: "sitepanel", Audience: "sitepanel-dashboard",
		AccessTTL: jwtx.DefaultAccessTokenTTL, RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
	router.AccountService = &service.AccountService{Store: st, Mailer: m}
	router.ResetService = &service.ResetService{Store: st, Mailer: m}
	router.ClientService = &service.ClientService{Store: st}
	router.SiteService = &service.SiteService{Store: st}
	router.BackupService = service.NewBackupService(st, m, logger, "panel.db", t.TempDir())
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	env.srv = srv
	env.httpc = &http.Client{Jar: jar}
	return env
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := e.httpc.Get(e.srv.URL + path)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// register creates and verifies an account through the public endpoints.
func (e *testEnv) register(t *testing.T, email, password string) {
	t.Helper()

	resp := e.postJSON(t, "/api/users/saveUser", map[string]string{
		"fullname": "Test User", "email": email, "password": password,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.get(t, "/api/users/magic_link/"+e.lastToken(t))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// signIn runs the password login then the magic-link exchange, returning the
// access token. The refresh cookie lands in the client's jar.
func (e *testEnv) signIn(t *testing.T, email, password string) string {
	t.Helper()

	resp := e.postJSON(t, "/api/users/login", map[string]string{"email": email, "password": password})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.get(t, "/api/users/login-verify/"+e.lastToken(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Data.AccessToken)
	return body.Data.AccessToken
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "Passw0rd!")

	t.Run("login with missing fields", func(t *testing.T) {
		resp := env.postJSON(t, "/api/users/login", map[string]string{"email": "alice@example.com"})
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		resp := env.postJSON(t, "/api/users/login", map[string]string{
			"email": "alice@example.com", "password": "wrong",
		})
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("full magic-link sign in sets the refresh cookie", func(t *testing.T) {
		token := env.signIn(t, "alice@example.com", "Passw0rd!")
		require.NotEmpty(t, token)

		u, err := url.Parse(env.srv.URL + RefreshCookiePath)
		require.NoError(t, err)

		var found bool
		for _, c := range env.httpc.Jar.Cookies(u) {
			if c.Name == RefreshCookieName {
				found = true
			}
		}
		require.True(t, found, "refresh cookie not set")
	})

	t.Run("refresh rotates the session", func(t *testing.T) {
		resp := env.postJSON(t, "/api/users/refresh-token", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Data struct {
				AccessToken string `json:"accessToken"`
			} `json:"data"`
		}
		decodeBody(t, resp, &body)
		require.NotEmpty(t, body.Data.AccessToken)
	})

	t.Run("logout clears the session", func(t *testing.T) {
		resp := env.postJSON(t, "/api/users/logout", nil)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = env.postJSON(t, "/api/users/refresh-token", nil)
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRefreshWithoutCookie(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/api/users/refresh-token", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVerifyEmailBranches(t *testing.T) {
	env := newTestEnv(t)

	t.Run("unknown token is 404", func(t *testing.T) {
		resp := env.get(t, "/api/users/magic_link/bogus-token")
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("expired token is 410 with EXPIRED code", func(t *testing.T) {
		// Seed an already-expired verification token directly.
		ctx := context.Background()
		now := time.Now().UTC()
		u := domain.User{
			ID: idx.New().String(), FullName: "Bob", Email: "bob@example.com",
			PasswordHash: "hash", CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, env.st.Users().CreateUser(ctx, u))

		token, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		require.NoError(t, env.st.ActionTokens().CreateActionToken(ctx, domain.ActionToken{
			ID: idx.New().String(), UserID: u.ID, Kind: domain.TokenKindVerifyEmail,
			TokenHash: cryptox.FingerprintToken(token),
			ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour),
		}))

		resp := env.get(t, "/api/users/magic_link/"+token)
		require.Equal(t, http.StatusGone, resp.StatusCode)

		var body struct {
			Code  string `json:"code"`
			Error string `json:"error"`
		}
		decodeBody(t, resp, &body)
		require.Equal(t, "EXPIRED", body.Code)
	})
}

func TestPasswordResetEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "carol@example.com", "OldPassw0rd")

	t.Run("forgot always reports success", func(t *testing.T) {
		resp := env.postJSON(t, "/api/users/forgot-password", map[string]string{"email": "ghost@example.com"})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	resp := env.postJSON(t, "/api/users/forgot-password", map[string]string{"email": "carol@example.com"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := env.lastToken(t)

	var userID string
	t.Run("verify resolves the token to a user", func(t *testing.T) {
		resp := env.get(t, "/api/users/reset-password/"+token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Data struct {
				UserID string `json:"userid"`
			} `json:"data"`
		}
		decodeBody(t, resp, &body)
		require.NotEmpty(t, body.Data.UserID)
		userID = body.Data.UserID
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp := env.postJSON(t, "/api/users/reset-password", map[string]string{
			"id": userID, "password": "password",
		})
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("reset succeeds and new password signs in", func(t *testing.T) {
		resp := env.postJSON(t, "/api/users/reset-password", map[string]string{
			"id": userID, "password": "NewPassw0rd",
		})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		env.signIn(t, "carol@example.com", "NewPassw0rd")
	})
}

func TestClientEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "dave@example.com", "Passw0rd!")

	t.Run("no bearer token", func(t *testing.T) {
		resp := env.postJSON(t, "/api/clients", map[string]string{"name": "Acme", "email": "acme@example.com"})
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	access := env.signIn(t, "dave@example.com", "Passw0rd!")

	authedJSON := func(method, path string, body any) *http.Response {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequest(method, env.srv.URL+path, reader)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+access)
		resp, err := env.httpc.Do(req)
		require.NoError(t, err)
		return resp
	}

	var clientID string
	t.Run("create client", func(t *testing.T) {
		resp := authedJSON(http.MethodPost, "/api/clients", map[string]string{
			"name": "Acme", "email": "acme@example.com",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Data struct {
				ClientID string `json:"clientId"`
			} `json:"data"`
		}
		decodeBody(t, resp, &body)
		require.NotEmpty(t, body.Data.ClientID)
		clientID = body.Data.ClientID
	})

	t.Run("site response carries visible sections", func(t *testing.T) {
		resp := authedJSON(http.MethodPost, "/api/sites", map[string]any{
			"clientId": clientID,
			"siteName": "Acme Store",
			"siteUrl":  "https://store.acme.example",
			// Managed cloud hosting: no cPanel or webmail section.
			"hostingProvider": "aws",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Data struct {
				SiteID          string `json:"siteId"`
				VisibleSections struct {
					AdminCpanel bool `json:"adminCpanel"`
					Webmail     bool `json:"webmail"`
					Nameservers bool `json:"nameservers"`
					FTP         bool `json:"ftp"`
					Database    bool `json:"database"`
				} `json:"visibleSections"`
			} `json:"data"`
		}
		decodeBody(t, resp, &body)
		require.False(t, body.Data.VisibleSections.AdminCpanel)
		require.False(t, body.Data.VisibleSections.Webmail)
		require.True(t, body.Data.VisibleSections.Nameservers)
		require.True(t, body.Data.VisibleSections.FTP)
		require.True(t, body.Data.VisibleSections.Database)
	})

	t.Run("delete client", func(t *testing.T) {
		resp := authedJSON(http.MethodDelete, "/api/clients/"+clientID, nil)
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/livez")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "ok", body.Status)

	resp = env.get(t, "/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	require.Equal(t, "ok", body.Database)
}
