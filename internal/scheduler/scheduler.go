package scheduler

import (
	"context"
	"log/slog"
	"time"

	"comment_harvester/internal/domain"
)

// Runner performs one harvest pass.
type Runner interface {
	Run(ctx context.Context) (*domain.RunStats, error)
}

type Scheduler struct {
	runner     Runner
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

// NewScheduler returns a scheduler that starts a pass every interval. A
// zero runTimeout leaves each pass bounded only by the parent context.
func NewScheduler(runner Runner, interval, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// Start runs one pass immediately and then one per tick until ctx ends.
// Passes never overlap: a tick that fires during a long pass is dropped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "run_timeout", s.runTimeout)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx := ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	stats, err := s.runner.Run(runCtx)
	if err != nil {
		s.logger.Error("harvest failed", "error", err)
		return
	}
	if stats != nil && stats.Errors > 0 {
		s.logger.Warn("harvest finished with errors", "errors", stats.Errors)
	}
}
