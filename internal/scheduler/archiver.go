package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelichko/foliobot/internal/domain"
)

// ArchiveRunner moves aged ledger and alert data to cold storage on a cron
// schedule.
type ArchiveRunner struct {
	archiver      domain.Archiver
	retentionDays int
	logger        *slog.Logger
}

// NewArchiveRunner creates an ArchiveRunner.
func NewArchiveRunner(archiver domain.Archiver, retentionDays int, logger *slog.Logger) *ArchiveRunner {
	return &ArchiveRunner{
		archiver:      archiver,
		retentionDays: retentionDays,
		logger:        logger.With(slog.String("component", "archiver")),
	}
}

// Run executes a single archive run against the retention cutoff.
func (a *ArchiveRunner) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-time.Duration(a.retentionDays) * 24 * time.Hour)
	a.logger.Info("starting archive run",
		slog.Time("cutoff", cutoff),
		slog.Int("retention_days", a.retentionDays),
	)

	txArchived, err := a.archiver.ArchiveTransactions(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archiving transactions before %v: %w", cutoff, err)
	}

	alertsArchived, err := a.archiver.ArchiveAlerts(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archiving alerts before %v: %w", cutoff, err)
	}

	a.logger.Info("archive run complete",
		slog.Int64("transactions_archived", txArchived),
		slog.Int64("alerts_archived", alertsArchived),
	)

	return nil
}

// RunCron runs the archiver on a cron schedule until the context is
// cancelled. Expressions use the standard 5-field format:
// "minute hour day-of-month month day-of-week".
//
// Example: "0 3 1 * *" runs at 3:00 AM on the 1st of every month.
func (a *ArchiveRunner) RunCron(ctx context.Context, cronExpr string) error {
	a.logger.Info("archiver cron started", slog.String("cron", cronExpr))

	for {
		next, err := nextCronTime(cronExpr, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("parsing cron expression %q: %w", cronExpr, err)
		}

		a.logger.Info("archiver waiting for next cron trigger",
			slog.Time("next_run", next),
		)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			a.logger.Info("archiver cron stopped")
			return ctx.Err()
		case <-timer.C:
			if err := a.Run(ctx); err != nil {
				a.logger.Error("archive run failed", slog.String("error", err.Error()))
			}
		}
	}
}
