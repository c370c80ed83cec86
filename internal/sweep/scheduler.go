package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/taskward/taskward-api/internal/config"
	"github.com/taskward/taskward-api/internal/platform/logger"
)

// tickTimeout bounds a single scheduled sweep pass.
const tickTimeout = 5 * time.Minute

// Scheduler triggers sweep passes on a cron schedule. An empty schedule
// disables periodic runs; the engine can still be invoked on demand.
type Scheduler struct {
	engine *Engine
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler creates a scheduler for the given engine. The schedule is a
// standard cron expression (descriptors like "@hourly" are accepted).
func NewScheduler(engine *Engine, cfg config.SweepConfig, log *slog.Logger) (*Scheduler, error) {
	if engine == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Scheduler{
		engine: engine,
		cron:   cron.New(),
		logger: log.With("component", "sweep_scheduler"),
	}

	if cfg.Schedule == "" {
		s.logger.Info("periodic sweep disabled, no schedule configured")
		return s, nil
	}

	if _, err := s.cron.AddFunc(cfg.Schedule, s.tick); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", cfg.Schedule, err)
	}
	s.logger.Info("periodic sweep scheduled",
		slog.String("schedule", cfg.Schedule))
	return s, nil
}

// Start launches the cron loop. It returns immediately.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron loop and waits for any in-flight pass to finish, or
// for the context to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for sweep to finish: %w", ctx.Err())
	}
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, s.logger)

	report, err := s.engine.Run(ctx)
	if err != nil {
		if errors.Is(err, ErrSweepInProgress) {
			s.logger.Warn("skipping scheduled sweep, previous pass still running")
			return
		}
		s.logger.Error("scheduled sweep failed",
			slog.String("error", err.Error()))
		return
	}
	if len(report.Failures) > 0 {
		s.logger.Warn("scheduled sweep finished with failures",
			slog.Int("failures", len(report.Failures)))
	}
}
