package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/store"
	"github.com/brightforge/sitepanel/pkg/idx"
)

var ErrSiteNotFound = errors.New("site_not_found")

// SiteService manages managed-website records. Ownership flows through the
// client record: a site is visible to whoever owns its client.
type SiteService struct {
	Store store.Store
}

func (s *SiteService) List(ctx context.Context, userID string) ([]domain.Site, error) {
	return s.Store.Sites().ListSites(ctx, userID)
}

func (s *SiteService) ListByClient(ctx context.Context, userID, clientID string) ([]domain.Site, error) {
	if err := s.checkClientOwner(ctx, userID, clientID); err != nil {
		return nil, err
	}
	return s.Store.Sites().ListSitesByClient(ctx, clientID)
}

func (s *SiteService) Get(ctx context.Context, userID, siteID string) (domain.Site, error) {
	site, err := s.Store.Sites().GetSiteByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Site{}, ErrSiteNotFound
		}
		return domain.Site{}, err
	}
	if err := s.checkClientOwner(ctx, userID, site.ClientID); err != nil {
		return domain.Site{}, err
	}
	return site, nil
}

func (s *SiteService) Create(ctx context.Context, userID string, site domain.Site) (domain.Site, error) {
	site.SiteName = strings.TrimSpace(site.SiteName)
	site.SiteURL = strings.TrimSpace(site.SiteURL)
	if site.SiteName == "" || site.SiteURL == "" || site.ClientID == "" {
		return domain.Site{}, ErrInvalidInput
	}
	if err := s.checkClientOwner(ctx, userID, site.ClientID); err != nil {
		return domain.Site{}, err
	}

	now := time.Now().UTC()
	site.ID = idx.New().String()
	site.CreatedAt = now
	site.UpdatedAt = now

	if err := s.Store.Sites().CreateSite(ctx, site); err != nil {
		return domain.Site{}, err
	}
	return site, nil
}

func (s *SiteService) Update(ctx context.Context, userID string, site domain.Site) (domain.Site, error) {
	existing, err := s.Get(ctx, userID, site.ID)
	if err != nil {
		return domain.Site{}, err
	}

	site.SiteName = strings.TrimSpace(site.SiteName)
	site.SiteURL = strings.TrimSpace(site.SiteURL)
	if site.SiteName == "" || site.SiteURL == "" {
		return domain.Site{}, ErrInvalidInput
	}

	// The owning client is fixed at creation.
	site.ClientID = existing.ClientID
	site.CreatedAt = existing.CreatedAt
	site.UpdatedAt = time.Now().UTC()

	if err := s.Store.Sites().UpdateSite(ctx, site); err != nil {
		return domain.Site{}, err
	}
	return site, nil
}

func (s *SiteService) Delete(ctx context.Context, userID, siteID string) error {
	if _, err := s.Get(ctx, userID, siteID); err != nil {
		return err
	}
	return s.Store.Sites().DeleteSite(ctx, siteID)
}

func (s *SiteService) checkClientOwner(ctx context.Context, userID, clientID string) error {
	c, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if c.UserID != userID {
		return ErrNotOwner
	}
	return nil
}
