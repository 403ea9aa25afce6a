package domain

import (
	"context"
	"time"
)

// LedgerStore persists the transaction log and the derived position table.
// Record is the only mutation path and must apply the transaction append and
// the position update as one atomic unit.
type LedgerStore interface {
	// Record appends tx and folds it into the (user, coin) position. It
	// returns ErrInsufficientHoldings for a sell that exceeds the current
	// holdings, leaving both tables untouched.
	Record(ctx context.Context, tx Transaction) (int64, error)
	// Positions returns the user's positions ordered by amount descending.
	Positions(ctx context.Context, userID int64) ([]Position, error)
	// Transactions returns the user's most recent transactions, newest first.
	Transactions(ctx context.Context, userID int64, limit int) ([]Transaction, error)
	// TransactionsBefore returns all transactions created strictly before the
	// cutoff, for archival.
	TransactionsBefore(ctx context.Context, before time.Time) ([]Transaction, error)
}

// AlertStore persists price-threshold alert rules.
type AlertStore interface {
	Create(ctx context.Context, a Alert) (int64, error)
	// ListActive returns the user's active alerts, newest first.
	ListActive(ctx context.Context, userID int64) ([]Alert, error)
	// ListAllActive returns every active alert across all users.
	ListAllActive(ctx context.Context) ([]Alert, error)
	// GetByID returns a single alert regardless of active state.
	GetByID(ctx context.Context, id int64) (Alert, error)
	// Delete removes the alert entirely if it exists and belongs to userID.
	// A missing id or an ownership mismatch returns false, not an error.
	Delete(ctx context.Context, id, userID int64) (bool, error)
	// Deactivate marks the alert inactive, keeping the row. Idempotent.
	Deactivate(ctx context.Context, id int64) error
	// ListInactiveBefore returns deactivated alerts created strictly before
	// the cutoff, for archival.
	ListInactiveBefore(ctx context.Context, before time.Time) ([]Alert, error)
}

// UserStore persists user profiles.
type UserStore interface {
	// Upsert creates the profile with defaults on first contact and applies
	// any non-nil field updates.
	Upsert(ctx context.Context, userID int64, timezone, summaryAt *string) error
	Get(ctx context.Context, userID int64) (UserProfile, error)
	All(ctx context.Context) ([]UserProfile, error)
}

// AuditStore persists an append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
}
