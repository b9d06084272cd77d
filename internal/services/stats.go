package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/repository"
)

// ReporterConfig controls how often counts are sampled.
type ReporterConfig struct {
	Interval time.Duration
}

// StatsReporter periodically logs user and task totals, giving operators
// a cheap growth signal without a metrics stack.
type StatsReporter struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	logger *zap.Logger
	cron   *cron.Cron
	cfg    ReporterConfig
}

func NewStatsReporter(
	users repository.UserRepository,
	tasks repository.TaskRepository,
	logger *zap.Logger,
	cfg ReporterConfig,
) *StatsReporter {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sr := &StatsReporter{
		users:  users,
		tasks:  tasks,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = sr.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sr.report(ctx)
	})

	return sr
}

// Start launches the cron scheduler.
func (sr *StatsReporter) Start() {
	if sr == nil || sr.cron == nil {
		return
	}
	sr.cron.Start()
	sr.logger.Info("stats reporter started", zap.Duration("interval", sr.cfg.Interval))
}

// Stop gracefully stops the scheduler, waiting for a running sample.
func (sr *StatsReporter) Stop(ctx context.Context) {
	if sr == nil || sr.cron == nil {
		return
	}
	stopCtx := sr.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (sr *StatsReporter) report(ctx context.Context) {
	userCount, err := sr.users.Count(ctx)
	if err != nil {
		sr.logger.Warn("user count failed", zap.Error(err))
		return
	}
	taskCount, err := sr.tasks.Count(ctx)
	if err != nil {
		sr.logger.Warn("task count failed", zap.Error(err))
		return
	}

	sr.logger.Info("store totals",
		zap.Int("users", userCount),
		zap.Int("tasks", taskCount))
}
