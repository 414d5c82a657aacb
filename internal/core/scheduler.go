package core

// scheduler.go runs the idle session sweep in the background. It sweeps once
// per interval until the context is cancelled; a sweep never fails the
// process.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when StartSweeper gets a non-positive interval.
const DefaultSweepInterval = time.Minute

// StartSweeper blocks, sweeping idle sessions every interval until ctx is
// done. It returns nil on cancellation so it can run inside an errgroup.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("session sweeper started",
		"interval", interval,
		"idle_timeout", s.opts.IdleTimeout,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return nil
		case <-ticker.C:
			start := time.Now()
			removed := s.Sweep()
			if removed > 0 {
				slog.Info("swept idle sessions",
					"removed", removed,
					"remaining", s.Count(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}
		}
	}
}
