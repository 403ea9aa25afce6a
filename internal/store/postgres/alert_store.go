package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelichko/foliobot/internal/domain"
)

// AlertStore implements domain.AlertStore using PostgreSQL.
type AlertStore struct {
	pool *pgxpool.Pool
}

// NewAlertStore creates an AlertStore backed by the given connection pool.
func NewAlertStore(pool *pgxpool.Pool) *AlertStore {
	return &AlertStore{pool: pool}
}

const alertSelectCols = `id, user_id, coin, target_price, direction, active, created_at`

func scanAlertRows(rows pgx.Rows) ([]domain.Alert, error) {
	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		var direction string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Coin, &a.TargetPrice,
			&direction, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan alert: %w", err)
		}
		a.Direction = domain.AlertDirection(direction)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// Create inserts a new active alert and returns its id. A user may hold
// several identical rules.
func (s *AlertStore) Create(ctx context.Context, a domain.Alert) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO alerts (user_id, coin, target_price, direction, active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id`,
		a.UserID, a.Coin, a.TargetPrice, string(a.Direction),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: create alert: %w", err)
	}
	return id, nil
}

// ListActive returns the user's active alerts, newest first.
func (s *AlertStore) ListActive(ctx context.Context, userID int64) ([]domain.Alert, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+alertSelectCols+` FROM alerts
		 WHERE user_id = $1 AND active
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list active alerts: %w", err)
	}
	defer rows.Close()

	return scanAlertRows(rows)
}

// ListAllActive returns every active alert across all users.
func (s *AlertStore) ListAllActive(ctx context.Context) ([]domain.Alert, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+alertSelectCols+` FROM alerts WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list all active alerts: %w", err)
	}
	defer rows.Close()

	return scanAlertRows(rows)
}

// GetByID returns a single alert regardless of active state.
func (s *AlertStore) GetByID(ctx context.Context, id int64) (domain.Alert, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+alertSelectCols+` FROM alerts WHERE id = $1`, id)

	var a domain.Alert
	var direction string
	err := row.Scan(&a.ID, &a.UserID, &a.Coin, &a.TargetPrice,
		&direction, &a.Active, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Alert{}, domain.ErrNotFound
		}
		return domain.Alert{}, fmt.Errorf("postgres: get alert %d: %w", id, err)
	}
	a.Direction = domain.AlertDirection(direction)
	return a, nil
}

// Delete removes the alert row entirely if it belongs to userID. Missing id
// or ownership mismatch is a normal no-op, reported as false.
func (s *AlertStore) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM alerts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("postgres: delete alert %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Deactivate marks the alert inactive, keeping the row for history.
// Idempotent: deactivating an already-inactive or missing alert is a no-op.
func (s *AlertStore) Deactivate(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE alerts SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: deactivate alert %d: %w", id, err)
	}
	return nil
}

// ListInactiveBefore returns deactivated alerts created strictly before the
// cutoff, for archival.
func (s *AlertStore) ListInactiveBefore(ctx context.Context, before time.Time) ([]domain.Alert, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+alertSelectCols+` FROM alerts
		 WHERE NOT active AND created_at < $1
		 ORDER BY created_at ASC`, before)
	if err != nil {
		return nil, fmt.Errorf("postgres: list inactive alerts before %v: %w", before, err)
	}
	defer rows.Close()

	return scanAlertRows(rows)
}

// Compile-time interface check.
var _ domain.AlertStore = (*AlertStore)(nil)
