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

var (
	ErrNotOwner       = errors.New("not_owner")
	ErrClientNotFound = errors.New("client_not_found")
	ErrInvalidInput   = errors.New("invalid_input")
)

// ClientService manages the agency's client records. Every operation is
// scoped to the authenticated panel user; nobody reads another user's book.
type ClientService struct {
	Store store.Store
}

func (s *ClientService) List(ctx context.Context, userID string) ([]domain.Client, error) {
	return s.Store.Clients().ListClientsByUser(ctx, userID)
}

func (s *ClientService) Get(ctx context.Context, userID, clientID string) (domain.Client, error) {
	c, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrClientNotFound
		}
		return domain.Client{}, err
	}
	if c.UserID != userID {
		return domain.Client{}, ErrNotOwner
	}
	return c, nil
}

func (s *ClientService) Create(ctx context.Context, userID string, c domain.Client) (domain.Client, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" || c.Email == "" {
		return domain.Client{}, ErrInvalidInput
	}

	now := time.Now().UTC()
	c.ID = idx.New().String()
	c.UserID = userID
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.Store.Clients().CreateClient(ctx, c); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (s *ClientService) Update(ctx context.Context, userID string, c domain.Client) (domain.Client, error) {
	existing, err := s.Get(ctx, userID, c.ID)
	if err != nil {
		return domain.Client{}, err
	}

	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" || c.Email == "" {
		return domain.Client{}, ErrInvalidInput
	}

	c.UserID = existing.UserID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	if err := s.Store.Clients().UpdateClient(ctx, c); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (s *ClientService) Delete(ctx context.Context, userID, clientID string) error {
	if _, err := s.Get(ctx, userID, clientID); err != nil {
		return err
	}
	return s.Store.Clients().DeleteClient(ctx, clientID)
}
