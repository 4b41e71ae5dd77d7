package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/calebmills/redlead/internal/pipeline"
)

// Runner is the slice of the pipeline the scheduler needs.
type Runner interface {
	Run(ctx context.Context, postsLimit int) pipeline.Stats
}

// Scheduler owns the watch loop: runs the pipeline immediately, then on a
// fixed interval. Runs are strictly sequential, never overlapping.
type Scheduler struct {
	runner     Runner
	interval   time.Duration
	postsLimit int
	logger     *slog.Logger
}

// NewScheduler creates a scheduler driving the given runner.
func NewScheduler(runner Runner, interval time.Duration, postsLimit int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		postsLimit: postsLimit,
		logger:     logger,
	}
}

// Run starts the watch loop. It runs one immediate pass, then ticks on the
// configured interval. Returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting watch loop",
		"interval", s.interval.String(),
		"posts_limit", s.postsLimit,
	)

	s.runner.Run(ctx, s.postsLimit)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down watch loop")
			return nil
		case <-time.After(s.interval):
			s.runner.Run(ctx, s.postsLimit)
		}
	}
}
