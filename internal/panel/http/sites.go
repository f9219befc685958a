package http

import (
	"encoding/json"
	"net/http"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/service"
	"github.com/brightforge/sitepanel/pkg/httpx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

// SitesHandler serves the managed-website CRUD endpoints.
type SitesHandler struct {
	SiteService *service.SiteService
}

// siteResponse decorates a site with the credential sections the UI should
// show for its hosting provider.
type siteResponse struct {
	domain.Site
	VisibleSections domain.SectionVisibility `json:"visibleSections"`
}

func newSiteResponse(s domain.Site) siteResponse {
	return siteResponse{Site: s, VisibleSections: domain.VisibleSections(s.HostingProvider)}
}

// HandleList godoc
//
//	@Summary	List Sites
//	@Description	Lists every site visible to the authenticated user. Filter by client with ?clientId=.
//	@Tags		Sites
//	@Produce	json
//	@Security	BearerAuth
//	@Param		clientId	query		string	false	"Restrict to one client"
//	@Success	200			{object}	map[string][]siteResponse	"data"
//	@Router		/api/sites [get].
func (h *SitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromContext(ctx)

	var (
		sites []domain.Site
		err   error
	)
	if clientID := r.URL.Query().Get("clientId"); clientID != "" {
		sites, err = h.SiteService.ListByClient(ctx, userID, clientID)
	} else {
		sites, err = h.SiteService.List(ctx, userID)
	}
	if err != nil {
		writeClientError(ctx, w, err)
		return
	}

	out := make([]siteResponse, 0, len(sites))
	for _, s := range sites {
		out = append(out, newSiteResponse(s))
	}
	log.Debug("listed sites", "count", len(out))

	httpx.WriteData(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary	Get Site
//	@Tags		Sites
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Site id"
//	@Success	200	{object}	map[string]siteResponse	"data"
//	@Failure	404	{object}	APIError
//	@Router		/api/sites/{id} [get].
func (h *SitesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	site, err := h.SiteService.Get(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeClientError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, newSiteResponse(site))
}

// HandleCreate godoc
//
//	@Summary	Create Site
//	@Tags		Sites
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		domain.Site	true	"Site record"
//	@Success	201		{object}	map[string]siteResponse	"data"
//	@Failure	400		{object}	APIError
//	@Router		/api/sites [post].
func (h *SitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var site domain.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := h.SiteService.Create(ctx, httpx.UserIDFromContext(ctx), site)
	if err != nil {
		writeClientError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, newSiteResponse(created))
}

// HandleUpdate godoc
//
//	@Summary	Update Site
//	@Tags		Sites
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string		true	"Site id"
//	@Param		body	body		domain.Site	true	"Site record"
//	@Success	200		{object}	map[string]siteResponse	"data"
//	@Failure	400		{object}	APIError
//	@Failure	404		{object}	APIError
//	@Router		/api/sites/{id} [put].
func (h *SitesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var site domain.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	site.ID = r.PathValue("id")

	updated, err := h.SiteService.Update(ctx, httpx.UserIDFromContext(ctx), site)
	if err != nil {
		writeClientError(ctx, w, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, newSiteResponse(updated))
}

// HandleDelete godoc
//
//	@Summary	Delete Site
//	@Tags		Sites
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Site id"
//	@Success	204
//	@Failure	404	{object}	APIError
//	@Router		/api/sites/{id} [delete].
func (h *SitesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.SiteService.Delete(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		writeClientError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
