package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightforge/sitepanel/internal/panel/service"
	"github.com/brightforge/sitepanel/pkg/httpx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

// ResetHandler serves the forgot-password flow.
type ResetHandler struct {
	ResetService *service.ResetService
}

type forgotRequest struct {
	Email string `json:"email"`
}

// HandleForgot godoc
//
//	@Summary		Request Password Reset
//	@Description	Emails a reset link if the address is registered. Always reports success.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			body	body		forgotRequest	true	"Account email"
//	@Success		200		{object}	map[string]string	"message"
//	@Failure		400		{object}	APIError
//	@Router			/api/users/forgot-password [post].
func (h *ResetHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req forgotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" {
		writeBadRequest(w, "email is required")
		return
	}

	if err := h.ResetService.Forgot(ctx, req.Email); err != nil {
		log.Error("forgot-password failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "if the address is registered, a reset email has been sent")
}

// HandleVerifyToken godoc
//
//	@Summary		Verify Reset Link
//	@Description	Checks a reset link and returns the account id it belongs to. The token is consumed later, when the new password is submitted.
//	@Tags			Account
//	@Produce		json
//	@Param			token	path		string	true	"Reset token"
//	@Success		200		{object}	map[string]map[string]string	"data.userid"
//	@Failure		400		{object}	APIError	"expired link"
//	@Failure		404		{object}	APIError	"unknown link"
//	@Router			/api/users/reset-password/{token} [get].
func (h *ResetHandler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")
	if token == "" {
		writeBadRequest(w, "missing reset token")
		return
	}

	userID, err := h.ResetService.VerifyToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenExpired):
			writeBadRequest(w, "reset link has expired")
		case errors.Is(err, service.ErrTokenNotFound):
			writeError(w, http.StatusNotFound, "reset link not found")
		default:
			log.Error("reset-token verification failed", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteData(w, http.StatusOK, map[string]string{"userid": userID})
}

type resetRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// HandleReset godoc
//
//	@Summary		Set New Password
//	@Description	Sets a new password for the account identified by the verified reset flow. Consumes the outstanding reset token and revokes every live session.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			body	body		resetRequest	true	"Account id and new password"
//	@Success		200		{object}	map[string]string	"message"
//	@Failure		400		{object}	APIError
//	@Router			/api/users/reset-password [post].
func (h *ResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.ID == "" || req.Password == "" {
		writeBadRequest(w, "id and password are required")
		return
	}

	if err := h.ResetService.Reset(ctx, req.ID, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrPasswordMismatch):
			writeBadRequest(w, "password must be at least 8 characters with an uppercase letter, a lowercase letter and a number")
		case errors.Is(err, service.ErrTokenExpired):
			writeBadRequest(w, "reset link has expired")
		case errors.Is(err, service.ErrTokenNotFound):
			writeBadRequest(w, "no pending password reset for this account")
		default:
			log.Error("password reset failed", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "password updated")
}
