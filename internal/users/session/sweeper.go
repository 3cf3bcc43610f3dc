// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically purges expired sessions that were never validated again.
//
// It complements the lazy cleanup in [Manager.ValidateSession]. Nothing depends on
// it running.
type Sweeper struct {
	repository Repository
	interval   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(repository Repository, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{repository: repository, interval: interval, logger: logger, now: time.Now}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (sweeper *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sweeper.interval)
	defer ticker.Stop()

	sweeper.logger.Info("session_sweeper_started", slog.Duration("interval", sweeper.interval))

	for {
		select {
		case <-ticker.C:
			_, _ = sweeper.SweepOnce(ctx)
		case <-ctx.Done():
			sweeper.logger.Info("session_sweeper_stopped")
			return
		}
	}
}

// SweepOnce deletes every session that is already expired.
func (sweeper *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	removed, err := sweeper.repository.DeleteExpired(ctx, sweeper.now())
	if err != nil {
		sweeper.logger.ErrorContext(ctx, "session_sweep_failed", slog.Any("error", err))
		return 0, err
	}

	if removed > 0 {
		sweeper.logger.Info("session_sweep_completed", slog.Int64("removed", removed))
	}

	return removed, nil
}
