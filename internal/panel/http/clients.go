package http

import (
	"encoding/json"
	"net/http"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/service"
	"github.com/brightforge/sitepanel/pkg/httpx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

// ClientsHandler serves the agency client CRUD endpoints. All routes sit
// behind the authn middleware; the user id comes from the verified token.
type ClientsHandler struct {
	ClientService *service.ClientService
}

// HandleList godoc
//
//	@Summary	List Clients
//	@Tags		Clients
//	@Produce	json
//	@Security	BearerAuth
//	@Param		userId	path		string	true	"Panel user id (must match the authenticated user)"
//	@Success	200		{object}	map[string][]domain.Client	"data"
//	@Failure	403		{object}	APIError
//	@Router		/api/clients/user/{userId} [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)

	if r.PathValue("userId") != userID {
		writeError(w, http.StatusForbidden, "cannot list another user's clients")
		return
	}

	clients, err := h.ClientService.List(ctx, userID)
	if err != nil {
		log.Error("client list failed", "err", err)
		writeServerError(w)
		return
	}
	if clients == nil {
		clients = []domain.Client{}
	}

	httpx.WriteData(w, http.StatusOK, clients)
}

// HandleGet godoc
//
//	@Summary	Get Client
//	@Tags		Clients
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Client id"
//	@Success	200	{object}	map[string]domain.Client	"data"
//	@Failure	403	{object}	APIError
//	@Failure	404	{object}	APIError
//	@Router		/api/clients/{id} [get].
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, err := h.ClientService.Get(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeClientError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, c)
}

// HandleCreate godoc
//
//	@Summary	Create Client
//	@Tags		Clients
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		domain.Client	true	"Client record"
//	@Success	201		{object}	map[string]domain.Client	"data"
//	@Failure	400		{object}	APIError
//	@Router		/api/clients [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var c domain.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := h.ClientService.Create(ctx, httpx.UserIDFromContext(ctx), c)
	if err != nil {
		writeClientError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, created)
}

// HandleUpdate godoc
//
//	@Summary	Update Client
//	@Tags		Clients
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string			true	"Client id"
//	@Param		body	body		domain.Client	true	"Client record"
//	@Success	200		{object}	map[string]domain.Client	"data"
//	@Failure	400		{object}	APIError
//	@Failure	404		{object}	APIError
//	@Router		/api/clients/{id} [put].
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var c domain.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	c.ID = r.PathValue("id")

	updated, err := h.ClientService.Update(ctx, httpx.UserIDFromContext(ctx), c)
	if err != nil {
		writeClientError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, updated)
}

// HandleDelete godoc
//
//	@Summary	Delete Client
//	@Tags		Clients
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Client id"
//	@Success	204
//	@Failure	404	{object}	APIError
//	@Router		/api/clients/{id} [delete].
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ClientService.Delete(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		writeClientError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
