// Package app provides the top-level application lifecycle for the portfolio
// bot. It wires together all dependencies (stores, caches, oracle, services,
// notifications) and runs the background scheduler until shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avelichko/foliobot/internal/config"
	"github.com/avelichko/foliobot/internal/scheduler"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, starts the scheduler loops, and blocks until
// the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	sweeper := scheduler.NewSweeper(
		deps.Alerts,
		deps.Notifier,
		deps.LockManager,
		a.cfg.Scheduler.SweepLockTTL.Duration,
		a.logger,
	)
	summaries := scheduler.NewSummaryScheduler(deps.Users, deps.Market, deps.Notifier, a.logger)

	var archiveRunner *scheduler.ArchiveRunner
	if deps.Archiver != nil {
		archiveRunner = scheduler.NewArchiveRunner(deps.Archiver, a.cfg.Scheduler.ArchiveRetentionDays, a.logger)
	}

	orch := scheduler.NewOrchestrator(
		sweeper,
		summaries,
		archiveRunner,
		a.cfg.Scheduler.SweepInterval.Duration,
		a.cfg.Scheduler.ArchiveCron,
		a.logger,
	)

	return orch.Run(ctx)
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
