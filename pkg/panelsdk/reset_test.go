package panelsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateNewPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		confirm  string
		want     error
	}{
		{"valid", "Passw0rd", "Passw0rd", nil},
		{"no digit or upper", "password", "password", ErrWeakPassword},
		{"no lower", "PASSW0RD", "PASSW0RD", ErrWeakPassword},
		{"too short", "Pa0x", "Pa0x", ErrWeakPassword},
		{"mismatch", "Passw0rd", "Passw0rd!", ErrPasswordMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateNewPassword(tc.password, tc.confirm)
			if tc.want == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestVerifyResetToken(t *testing.T) {
	t.Run("valid token resolves the user", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/users/reset-password/reset-token", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"userid": "user-7"}})
		}))
		defer srv.Close()

		userID, err := newClient(t, srv.URL).VerifyResetToken(context.Background(), "reset-token")
		require.NoError(t, err)
		require.Equal(t, "user-7", userID)
	})

	t.Run("invalid token surfaces the backend message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "reset link not found"})
		}))
		defer srv.Close()

		_, err := newClient(t, srv.URL).VerifyResetToken(context.Background(), "bogus")
		require.EqualError(t, err, "reset link not found")
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("weak password rejected before any request", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))
		defer srv.Close()

		err := newClient(t, srv.URL).ResetPassword(context.Background(), "user-7", "password")
		require.ErrorIs(t, err, ErrWeakPassword)
		require.Zero(t, calls, "a rejected password must never reach the network")
	})

	t.Run("valid password submits id and password", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/users/reset-password", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
		}))
		defer srv.Close()

		require.NoError(t, newClient(t, srv.URL).ResetPassword(context.Background(), "user-7", "NewPassw0rd"))
		require.Equal(t, "user-7", got["id"])
		require.Equal(t, "NewPassw0rd", got["password"])
	})

	t.Run("forgot password posts the email", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/users/forgot-password", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			writeJSON(w, http.StatusOK, map[string]string{"message": "sent"})
		}))
		defer srv.Close()

		require.NoError(t, newClient(t, srv.URL).ForgotPassword(context.Background(), "user@example.com"))
		require.Equal(t, "user@example.com", got["email"])
	})
}
