// Package scheduler runs the background loops: the periodic alert sweep,
// per-user daily summaries, and cold-storage archival.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avelichko/foliobot/internal/domain"
	"github.com/avelichko/foliobot/internal/notify"
	"github.com/avelichko/foliobot/internal/service"
)

// sweepLockKey names the distributed lock that serializes sweep rounds
// across processes.
const sweepLockKey = "alert-sweep"

// Sweeper periodically evaluates active alerts and delivers the ones that
// fire. Rounds are serialized through a distributed lock so running more than
// one process never double-fires an alert.
type Sweeper struct {
	alerts   *service.AlertRegistry
	notifier *notify.Notifier
	locks    domain.LockManager
	lockTTL  time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper.
func NewSweeper(alerts *service.AlertRegistry, notifier *notify.Notifier, locks domain.LockManager, lockTTL time.Duration, logger *slog.Logger) *Sweeper {
	if lockTTL <= 0 {
		lockTTL = time.Minute
	}
	return &Sweeper{
		alerts:   alerts,
		notifier: notifier,
		locks:    locks,
		lockTTL:  lockTTL,
		logger:   logger.With(slog.String("component", "sweeper")),
	}
}

// RunLoop sweeps once immediately and then on every tick until the context
// is cancelled.
func (s *Sweeper) RunLoop(ctx context.Context, interval time.Duration) error {
	s.sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweep loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one round under the distributed lock. A held lock means another
// process is mid-round; this round is skipped, not queued.
func (s *Sweeper) sweep(ctx context.Context) {
	unlock, err := s.locks.Acquire(ctx, sweepLockKey, s.lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrLockHeld) {
			s.logger.DebugContext(ctx, "sweep already running elsewhere, skipping round")
			return
		}
		s.logger.ErrorContext(ctx, "sweep lock acquire failed", slog.String("error", err.Error()))
		return
	}
	defer unlock()

	fired, err := s.alerts.Sweep(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "sweep failed", slog.String("error", err.Error()))
	}

	for _, f := range fired {
		msg := formatAlertMessage(f)
		if err := s.notifier.NotifyUser(ctx, f.Alert.UserID, msg); err != nil {
			// The alert is already deactivated; delivery failure is logged,
			// not retried.
			s.logger.ErrorContext(ctx, "alert delivery failed",
				slog.Int64("alert_id", f.Alert.ID),
				slog.Int64("user_id", f.Alert.UserID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// formatAlertMessage renders a fired alert for delivery.
func formatAlertMessage(f service.FiredAlert) string {
	return fmt.Sprintf("Price alert: %s is %s your target of $%.2f (current price $%.2f)",
		strings.ToUpper(f.Alert.Coin), f.Alert.Direction, f.Alert.TargetPrice, f.Price)
}
