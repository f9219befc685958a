package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/store"
)

// ActionTokenGrace keeps expired one-time tokens around so an old emailed
// link still answers "expired" (410) rather than "unknown" (404). After the
// grace window housekeeping removes the row and the distinction is lost.
const ActionTokenGrace = 7 * 24 * time.Hour

// HousekeepingService sweeps expired refresh and action tokens on a timer so
// the token tables don't grow without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService builds the sweeper. A non-positive interval falls
// back to hourly.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop. Call only after migrations have run.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop waits for any in-flight sweep to finish before returning.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep runs each deletion independently; one failing table never blocks the
// others.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	if err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx); err != nil {
		s.Logger.Error("sweep of expired refresh tokens failed", "err", err)
	}
	if err := s.Store.ActionTokens().DeleteExpiredActionTokens(ctx, ActionTokenGrace); err != nil {
		s.Logger.Error("sweep of expired action tokens failed", "err", err)
	}

	s.Logger.Debug("housekeeping sweep completed")
}
