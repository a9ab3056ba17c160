package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"mercator-hq/ganymede/pkg/config"
)

// Target is anything that can drop stale usage records. Both a single
// usage.Ledger and a whole registry.Registry satisfy it.
type Target interface {
	// Sweep removes records whose window expired at least grace ago and
	// returns the number removed.
	Sweep(grace time.Duration) int
}

// Sweeper runs sweeps over its targets on a cron schedule.
type Sweeper struct {
	schedule string
	grace    time.Duration
	targets  []Target

	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a sweeper that runs on the given cron schedule
// ("0 3 * * *", "@hourly", "@every 10m"). Records are removed once their
// window has been expired for at least grace.
func New(schedule string, grace time.Duration, targets ...Target) *Sweeper {
	return &Sweeper{
		schedule: schedule,
		grace:    grace,
		targets:  targets,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "usage.sweeper"),
	}
}

// FromConfig creates a sweeper from a policy file's sweep section.
func FromConfig(cfg config.SweepConfig, targets ...Target) *Sweeper {
	return New(cfg.Schedule, time.Duration(cfg.Grace), targets...)
}

// SetLogger replaces the sweeper's logger. Call before Start.
func (s *Sweeper) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start begins scheduled sweeping. An empty schedule disables the
// sweeper and Start does nothing. The sweeper stops when the context is
// cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("sweep schedule not configured, skipping sweeper")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, s.Run); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("sweeper started",
		"schedule", s.schedule,
		"grace", s.grace.String(),
		"targets", len(s.targets),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Run executes one sweep over all targets immediately. It is called by
// the scheduler and may also be called directly.
func (s *Sweeper) Run() {
	sweepID := uuid.NewString()
	start := time.Now()

	removed := 0
	for _, target := range s.targets {
		removed += target.Sweep(s.grace)
	}

	if removed > 0 {
		s.logger.Info("sweep completed",
			"sweep_id", sweepID,
			"removed", removed,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	} else {
		s.logger.Debug("sweep completed, nothing removed",
			"sweep_id", sweepID,
		)
	}
}

// Stop stops the scheduler and waits for any running sweep to complete.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("sweeper stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
