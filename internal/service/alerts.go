package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelichko/foliobot/internal/domain"
)

// FiredAlert is an alert that triggered during a sweep, paired with the price
// that tripped it.
type FiredAlert struct {
	Alert domain.Alert
	Price float64
}

// AlertRegistry manages price-threshold alerts: creation, listing, the two
// deactivation paths, and sweep evaluation.
type AlertRegistry struct {
	store  domain.AlertStore
	prices *PriceService
	audit  domain.AuditStore
	logger *slog.Logger
}

// NewAlertRegistry creates an AlertRegistry with all required dependencies.
func NewAlertRegistry(store domain.AlertStore, prices *PriceService, audit domain.AuditStore, logger *slog.Logger) *AlertRegistry {
	return &AlertRegistry{
		store:  store,
		prices: prices,
		audit:  audit,
		logger: logger,
	}
}

// Create registers a new active alert. Duplicates of an existing rule are
// accepted as-is.
func (r *AlertRegistry) Create(ctx context.Context, userID int64, coin string, targetPrice float64, direction domain.AlertDirection) (domain.Alert, error) {
	coin, err := normalizeCoin(coin)
	if err != nil {
		return domain.Alert{}, err
	}
	if targetPrice <= 0 {
		return domain.Alert{}, fmt.Errorf("alerts: %w: target price must be positive, got %g", domain.ErrInvalidInput, targetPrice)
	}
	if !direction.Valid() {
		return domain.Alert{}, fmt.Errorf("alerts: %w: direction must be %q or %q", domain.ErrInvalidInput, domain.AlertAbove, domain.AlertBelow)
	}

	if _, err := r.prices.Resolve(ctx, coin); err != nil {
		return domain.Alert{}, fmt.Errorf("alerts: validate coin: %w", err)
	}

	a := domain.Alert{
		UserID:      userID,
		Coin:        coin,
		TargetPrice: targetPrice,
		Direction:   direction,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	id, err := r.store.Create(ctx, a)
	if err != nil {
		return domain.Alert{}, fmt.Errorf("alerts: create: %w", err)
	}
	a.ID = id

	r.logger.InfoContext(ctx, "alerts: alert created",
		slog.Int64("alert_id", a.ID),
		slog.Int64("user_id", a.UserID),
		slog.String("coin", a.Coin),
		slog.Float64("target_price", a.TargetPrice),
		slog.String("direction", string(a.Direction)),
	)

	return a, nil
}

// List returns the user's active alerts, newest first.
func (r *AlertRegistry) List(ctx context.Context, userID int64) ([]domain.Alert, error) {
	alerts, err := r.store.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("alerts: list for %d: %w", userID, err)
	}
	return alerts, nil
}

// Delete removes an alert entirely. Unlike deactivation, the row does not
// survive for history. It returns domain.ErrNotFound when the alert does not
// exist or belongs to another user.
func (r *AlertRegistry) Delete(ctx context.Context, id, userID int64) error {
	deleted, err := r.store.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("alerts: delete %d: %w", id, err)
	}
	if !deleted {
		return fmt.Errorf("alerts: delete %d: %w", id, domain.ErrNotFound)
	}

	r.logger.InfoContext(ctx, "alerts: alert deleted",
		slog.Int64("alert_id", id),
		slog.Int64("user_id", userID),
	)
	return nil
}

// Sweep evaluates every active alert against a fresh price per coin,
// deactivates the ones that trigger, and returns them for delivery. Coins
// whose price cannot be fetched are skipped and retried on the next round.
// Each alert fires at most once: it is re-read and skipped if a concurrent
// sweep already deactivated it.
func (r *AlertRegistry) Sweep(ctx context.Context) ([]FiredAlert, error) {
	alerts, err := r.store.ListAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("alerts: sweep: list active: %w", err)
	}
	if len(alerts) == 0 {
		return nil, nil
	}

	// One price fetch per distinct coin; every alert in the round sees the
	// same quote.
	prices := make(map[string]float64)
	for _, a := range alerts {
		if _, ok := prices[a.Coin]; ok {
			continue
		}
		price, err := r.prices.CurrentPrice(ctx, a.Coin)
		if err != nil {
			r.logger.WarnContext(ctx, "alerts: price fetch failed, skipping coin this round",
				slog.String("coin", a.Coin),
				slog.String("error", err.Error()),
			)
			continue
		}
		prices[a.Coin] = price
	}

	var fired []FiredAlert
	for _, a := range alerts {
		price, ok := prices[a.Coin]
		if !ok || !a.Triggered(price) {
			continue
		}

		current, err := r.store.GetByID(ctx, a.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // deleted mid-sweep
			}
			return fired, fmt.Errorf("alerts: sweep: reload alert %d: %w", a.ID, err)
		}
		if !current.Active {
			continue // another round got here first
		}

		if err := r.store.Deactivate(ctx, a.ID); err != nil {
			return fired, fmt.Errorf("alerts: sweep: deactivate %d: %w", a.ID, err)
		}

		if auditErr := r.audit.Log(ctx, "alert_triggered", map[string]any{
			"alert_id":     a.ID,
			"user_id":      a.UserID,
			"coin":         a.Coin,
			"target_price": a.TargetPrice,
			"direction":    string(a.Direction),
			"price":        price,
		}); auditErr != nil {
			r.logger.WarnContext(ctx, "alerts: audit log failed",
				slog.Int64("alert_id", a.ID),
				slog.String("error", auditErr.Error()),
			)
		}

		r.logger.InfoContext(ctx, "alerts: alert triggered",
			slog.Int64("alert_id", a.ID),
			slog.Int64("user_id", a.UserID),
			slog.String("coin", a.Coin),
			slog.Float64("target_price", a.TargetPrice),
			slog.Float64("price", price),
		)

		fired = append(fired, FiredAlert{Alert: a, Price: price})
	}

	return fired, nil
}
