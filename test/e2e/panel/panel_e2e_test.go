package panel_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brightforge/sitepanel/pkg/panelsdk"
)

// The service sends its one-time links by email, and no mail provider is
// configured inside the container, so these tests cover everything up to the
// point a user would click a link: registration, credential checks, token
// rejection paths, session plumbing and rate limiting.

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupPanelContainer(t)
	defer cleanup()

	t.Run("livez", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/livez")
		require.NoError(t, err)

		var body map[string]string
		readJSON(t, resp, &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "ok", body["status"])
	})

	t.Run("readyz reports database", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/readyz")
		require.NoError(t, err)

		var body map[string]string
		readJSON(t, resp, &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "ok", body["database"])
	})
}

func TestRegistrationFlow(t *testing.T) {
	baseURL, cleanup := setupPanelContainer(t)
	defer cleanup()

	saveURL := baseURL + "/api/users/saveUser"

	t.Run("creates account", func(t *testing.T) {
		resp := postJSON(t, saveURL, map[string]string{
			"fullname": "Avery Chen",
			"email":    "avery@example.com",
			"password": "Sup3rSecret",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := postJSON(t, saveURL, map[string]string{
			"fullname": "Avery Again",
			"email":    "avery@example.com",
			"password": "Sup3rSecret",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp := postJSON(t, saveURL, map[string]string{
			"fullname": "Weak Password",
			"email":    "weak@example.com",
			"password": "password",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		resp := postJSON(t, saveURL, map[string]string{"email": "nobody@example.com"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginRejections(t *testing.T) {
	baseURL, cleanup := setupPanelContainer(t)
	defer cleanup()

	resp := postJSON(t, baseURL+"/api/users/saveUser", map[string]string{
		"fullname": "Jordan Park",
		"email":    "jordan@example.com",
		"password": "Sup3rSecret",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	loginURL := baseURL + "/api/users/login"

	t.Run("unknown email", func(t *testing.T) {
		resp := postJSON(t, loginURL, map[string]string{
			"email":    "ghost@example.com",
			"password": "Sup3rSecret",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := postJSON(t, loginURL, map[string]string{
			"email":    "jordan@example.com",
			"password": "WrongSecret1",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unverified email", func(t *testing.T) {
		resp := postJSON(t, loginURL, map[string]string{
			"email":    "jordan@example.com",
			"password": "Sup3rSecret",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestSessionEndpointsWithoutCredentials(t *testing.T) {
	baseURL, cleanup := setupPanelContainer(t)
	defer cleanup()

	t.Run("refresh without cookie", func(t *testing.T) {
		resp := postJSON(t, baseURL+"/api/users/refresh-token", map[string]string{})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("logout is always acknowledged", func(t *testing.T) {
		resp := postJSON(t, baseURL+"/api/users/logout", map[string]string{})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("sites require a bearer token", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/sites")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage login token", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/users/login-verify/not-a-real-token")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestTokenEndpoints(t *testing.T) {
	baseURL, cleanup := setupPanelContainer(t)
	defer cleanup()

	t.Run("unknown verification link", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/users/magic_link/unknown-token")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("forgot password never reveals accounts", func(t *testing.T) {
		resp := postJSON(t, baseURL+"/api/users/forgot-password", map[string]string{
			"email": "nobody@example.com",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown reset token", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/users/reset-password/unknown-token")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

// TestSDKAgainstLiveService drives the published client library against the
// containerised service.
func TestSDKAgainstLiveService(t *testing.T) {
	baseURL, cleanup := setupPanelContainer(t)
	defer cleanup()

	ctx := context.Background()
	client, err := panelsdk.New(baseURL)
	require.NoError(t, err)

	t.Run("refresh with no session settles anonymous", func(t *testing.T) {
		session := panelsdk.NewSession(client)
		require.Equal(t, panelsdk.StateAnonymous, session.Refresh(ctx))
		require.Empty(t, session.Token())
	})

	t.Run("verify email reports not found", func(t *testing.T) {
		result := client.VerifyEmail(ctx, "no-such-token")
		require.Equal(t, panelsdk.OutcomeNotFound, result.Outcome)
	})

	t.Run("magic login with a bad link fails cleanly", func(t *testing.T) {
		session := panelsdk.NewSession(client)
		err := session.MagicLogin(ctx, "no-such-token")
		require.Error(t, err)
		require.Equal(t, panelsdk.StateUnknown, session.State())
	})

	t.Run("login dispatch for unknown account", func(t *testing.T) {
		session := panelsdk.NewSession(client)
		err := session.Login(ctx, "ghost@example.com", "Sup3rSecret")
		require.Error(t, err)
	})
}

func TestRateLimiting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping rate limit test in short mode")
	}

	baseURL, cleanup := setupPanelContainerWithDefaultRateLimits(t)
	defer cleanup()

	loginURL := baseURL + "/api/users/login"

	// The login profile allows a burst of 5 per client IP.
	var limited bool
	for i := 0; i < 10; i++ {
		resp := postJSON(t, loginURL, map[string]string{
			"email":    fmt.Sprintf("probe%d@example.com", i),
			"password": "Sup3rSecret",
		})
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, limited, "expected a 429 after exhausting the login burst")
}
