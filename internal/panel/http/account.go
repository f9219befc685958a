package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightforge/sitepanel/internal/panel/service"
	"github.com/brightforge/sitepanel/pkg/httpx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

// AccountHandler serves registration and email-verification endpoints.
type AccountHandler struct {
	AccountService *service.AccountService
}

type registerRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister godoc
//
//	@Summary		Register Account
//	@Description	Creates an unverified account and emails a verification link.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			body	body		registerRequest	true	"New account"
//	@Success		201		{object}	map[string]string	"message"
//	@Failure		400		{object}	APIError
//	@Failure		409		{object}	APIError
//	@Router			/api/users/saveUser [post].
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeBadRequest(w, "fullname, email and password are required")
		return
	}

	if _, err := h.AccountService.Register(ctx, req.FullName, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusConflict, "an account with this email already exists")
		case errors.Is(err, service.ErrWeakPassword):
			writeBadRequest(w, "password must be at least 8 characters with an uppercase letter, a lowercase letter and a number")
		default:
			log.Error("registration failed", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteMessage(w, http.StatusCreated, "account created, check your email to verify your address")
}

// HandleVerifyEmail godoc
//
//	@Summary		Verify Email Address
//	@Description	Redeems the emailed verification link. Expired links return 410 with code EXPIRED so the client can offer a resend; unknown links return 404.
//	@Tags			Account
//	@Produce		json
//	@Param			token	path		string	true	"Verification token"
//	@Success		200		{object}	map[string]string	"message"
//	@Failure		404		{object}	APIError
//	@Failure		410		{object}	APIError	"code=EXPIRED"
//	@Router			/api/users/magic_link/{token} [get].
func (h *AccountHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")
	if token == "" {
		writeBadRequest(w, "missing verification token")
		return
	}

	if err := h.AccountService.VerifyEmail(ctx, token); err != nil {
		switch {
		case errors.Is(err, service.ErrTokenExpired):
			writeExpired(w, "verification link has expired")
		case errors.Is(err, service.ErrTokenNotFound):
			writeError(w, http.StatusNotFound, "verification link not found")
		default:
			log.Error("email verification failed", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "email verified")
}

// HandleResendByToken godoc
//
//	@Summary		Resend Verification (by token)
//	@Description	Issues a fresh verification link for the account behind an old (possibly expired) link.
//	@Tags			Account
//	@Produce		json
//	@Param			token	path		string	true	"Previous verification token"
//	@Success		200		{object}	map[string]string	"message"
//	@Failure		404		{object}	APIError
//	@Router			/api/users/resend-verification/{token} [post].
func (h *AccountHandler) HandleResendByToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")
	if token == "" {
		writeBadRequest(w, "missing verification token")
		return
	}

	if err := h.AccountService.ResendVerificationByToken(ctx, token); err != nil {
		if errors.Is(err, service.ErrTokenNotFound) {
			writeError(w, http.StatusNotFound, "verification link not found")
			return
		}
		log.Error("resend verification failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "verification email sent")
}

type resendRequest struct {
	Email string `json:"email"`
}

// HandleResendByEmail godoc
//
//	@Summary		Resend Verification (by email)
//	@Description	Issues a fresh verification link if the address belongs to an unverified account. Always reports success.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			body	body		resendRequest	true	"Account email"
//	@Success		200		{object}	map[string]string	"message"
//	@Failure		400		{object}	APIError
//	@Router			/api/users/resend-verification [post].
func (h *AccountHandler) HandleResendByEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" {
		writeBadRequest(w, "email is required")
		return
	}

	if err := h.AccountService.ResendVerificationByEmail(ctx, req.Email); err != nil {
		log.Error("resend verification failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "if the address is registered, a verification email has been sent")
}
