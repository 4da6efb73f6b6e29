// Package sweeper wires up the cron job that periodically closes PUBLISHED
// jobs whose expiry has passed. Closing is always allowed by the lifecycle
// state machine, so the sweep never conflicts with a guard.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ExpiredCloser is the slice of the store the sweep needs.
type ExpiredCloser interface {
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper wraps robfig/cron and manages the expiry sweep loop.
type Sweeper struct {
	cron  *cron.Cron
	store ExpiredCloser
	spec  string // cron spec, e.g. "@every 1h"
}

// New creates a Sweeper that fires every intervalHours hours.
func New(store ExpiredCloser, intervalHours int) *Sweeper {
	return &Sweeper{
		cron:  cron.New(),
		store: store,
		spec:  fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so a restart does not leave expired jobs open until the first
// tick.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	slog.Info("expiry sweep started", "spec", s.spec)

	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	slog.Info("expiry sweep stopped")
}

func (s *Sweeper) runSweep(ctx context.Context) {
	closed, err := s.store.CloseExpired(ctx, time.Now())
	if err != nil {
		slog.Error("expiry sweep failed", "err", err)
		return
	}
	if closed > 0 {
		slog.Info("expiry sweep closed jobs", "count", closed)
	}
}
