package portablepress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// rebuildTimeout bounds a single scheduled rebuild.
const rebuildTimeout = 5 * time.Minute

// Rebuilder periodically drops cached content and regenerates the build
// artifacts, for deployments without a CMS webhook.
type Rebuilder struct {
	scheduler gocron.Scheduler
	cache     *CachedSource
	builder   *Builder
	logger    *slog.Logger
}

// NewRebuilder creates a rebuilder. Nothing runs until Schedule and Start.
func NewRebuilder(cache *CachedSource, builder *Builder, logger *slog.Logger) (*Rebuilder, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebuilder{
		scheduler: s,
		cache:     cache,
		builder:   builder,
		logger:    logger,
	}, nil
}

// Schedule registers the rebuild job at a fixed interval. Runs never
// overlap; a tick that fires while a build is in flight is skipped.
func (r *Rebuilder) Schedule(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("rebuild interval must be positive, got %s", interval)
	}
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.run),
		gocron.WithName("content-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create rebuild job: %w", err)
	}
	return nil
}

// Start begins running scheduled jobs.
func (r *Rebuilder) Start() {
	r.logger.Info("Starting rebuild scheduler")
	r.scheduler.Start()
}

// Stop waits for a running job and shuts the scheduler down.
func (r *Rebuilder) Stop() error {
	r.logger.Info("Stopping rebuild scheduler")
	return r.scheduler.Shutdown()
}

func (r *Rebuilder) run() {
	ctx, cancel := context.WithTimeout(context.Background(), rebuildTimeout)
	defer cancel()

	if r.cache != nil {
		r.cache.Invalidate()
	}
	report, err := r.builder.Build(ctx)
	if err != nil {
		r.logger.Error("Scheduled rebuild failed", "error", err)
		return
	}
	r.logger.Info("Scheduled rebuild done",
		"build_id", report.ID,
		"posts", report.Posts,
		"duration", report.Duration)
}
