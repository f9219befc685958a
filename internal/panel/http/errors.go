package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/brightforge/sitepanel/internal/panel/service"
	"github.com/brightforge/sitepanel/pkg/httpx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

// APIError is the dashboard's error body: `{"error": "..."}` for plain
// failures and `{"code": "...", "error": "..."}` when the UI needs to branch
// on a machine-readable code (expired verification links).
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"error"`
}

func (e APIError) Error() string { return e.Message }

// WriteError renders the error body with its status code.
func (e APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.Status, e)
}

// CodeExpired marks a link that existed but whose window has passed.
// The dashboard shows a resend prompt only for this code.
const CodeExpired = "EXPIRED"

func writeError(w http.ResponseWriter, status int, message string) {
	APIError{Status: status, Message: message}.WriteError(w)
}

func writeExpired(w http.ResponseWriter, message string) {
	APIError{Status: http.StatusGone, Code: CodeExpired, Message: message}.WriteError(w)
}

func writeServerError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

// writeClientError maps the CRUD service sentinels onto response codes.
func writeClientError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client not found")
	case errors.Is(err, service.ErrSiteNotFound):
		writeError(w, http.StatusNotFound, "site not found")
	case errors.Is(err, service.ErrNotOwner):
		writeError(w, http.StatusForbidden, "record belongs to another user")
	case errors.Is(err, service.ErrInvalidInput):
		writeBadRequest(w, "missing or invalid fields")
	default:
		slogx.FromContext(ctx).Error("request failed", "err", err)
		writeServerError(w)
	}
}
