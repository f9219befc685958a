package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/service"
	"github.com/brightforge/sitepanel/pkg/httpx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

// RefreshCookieName carries the opaque refresh credential. httpOnly and
// path-scoped to the auth endpoints so scripts and unrelated routes never
// see it.
const RefreshCookieName = "sp_refresh"

// RefreshCookiePath scopes the cookie to the endpoints that consume it.
const RefreshCookiePath = "/api/users"

// SessionHandler serves the login, magic-link exchange, refresh and logout
// endpoints.
type SessionHandler struct {
	SessionService *service.SessionService
	SecureCookies  bool
}

// tokenData is the success payload for login-verify and refresh-token:
// `{"data":{"accessToken":...,"user":{...}}}`.
type tokenData struct {
	AccessToken string         `json:"accessToken"`
	User        domain.Profile `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin godoc
//
//	@Summary		Password Login
//	@Description	Verifies the password and emails a one-time magic sign-in link. No tokens are returned; the emailed link completes the login.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	map[string]string	"message"
//	@Failure		400		{object}	APIError
//	@Failure		401		{object}	APIError
//	@Failure		403		{object}	APIError
//	@Router			/api/users/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	if err := h.SessionService.Login(ctx, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrEmailNotVerified):
			writeError(w, http.StatusForbidden, "email address not verified")
		default:
			log.Error("login failed", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "A sign-in link has been sent to your email")
}

// HandleLoginVerify godoc
//
//	@Summary		Magic-Link Login Exchange
//	@Description	Redeems the one-time token from the emailed sign-in link for an access token and refresh cookie. Single use.
//	@Tags			Auth
//	@Produce		json
//	@Param			validationId	path		string	true	"One-time login token"
//	@Success		200				{object}	map[string]tokenData	"data.accessToken, data.user"
//	@Failure		401				{object}	APIError
//	@Router			/api/users/login-verify/{validationId} [get].
func (h *SessionHandler) HandleLoginVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	opaque := r.PathValue("validationId")
	if opaque == "" {
		writeBadRequest(w, "missing login token")
		return
	}

	bundle, err := h.SessionService.ExchangeLoginToken(ctx, opaque)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLoginToken) {
			writeError(w, http.StatusUnauthorized, "sign-in link is invalid or has expired")
			return
		}
		log.Error("login-verify failed", "err", err)
		writeServerError(w)
		return
	}

	h.setRefreshCookie(w, bundle.RefreshOpaque, bundle.ExpiresIn)
	httpx.WriteData(w, http.StatusOK, tokenData{
		AccessToken: bundle.AccessToken,
		User:        bundle.User,
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh Session
//	@Description	Rotates the refresh cookie and returns a fresh access token with the user profile.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]tokenData	"data.accessToken, data.user"
//	@Failure		401	{object}	APIError
//	@Router			/api/users/refresh-token [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "no active session")
		return
	}

	bundle, err := h.SessionService.Refresh(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			h.clearRefreshCookie(w)
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		log.Error("refresh failed", "err", err)
		writeServerError(w)
		return
	}

	h.setRefreshCookie(w, bundle.RefreshOpaque, bundle.ExpiresIn)
	httpx.WriteData(w, http.StatusOK, tokenData{
		AccessToken: bundle.AccessToken,
		User:        bundle.User,
	})
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Revokes the refresh credential and clears the cookie. Always succeeds from the caller's point of view.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]string	"message"
//	@Router			/api/users/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if cookie, err := r.Cookie(RefreshCookieName); err == nil && cookie.Value != "" {
		if err := h.SessionService.Logout(ctx, cookie.Value); err != nil {
			// Logout still clears the cookie; the revocation is retried by
			// housekeeping when the token eventually expires.
			log.Error("logout revocation failed", "err", err)
		}
	}

	h.clearRefreshCookie(w)
	httpx.WriteMessage(w, http.StatusOK, "logged out")
}

func (h *SessionHandler) setRefreshCookie(w http.ResponseWriter, value string, _ time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     RefreshCookiePath,
		MaxAge:   int(h.SessionService.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *SessionHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     RefreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
