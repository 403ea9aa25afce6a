package domain

import "time"

// AlertDirection says which side of the target price fires the alert.
type AlertDirection string

const (
	AlertAbove AlertDirection = "above"
	AlertBelow AlertDirection = "below"
)

// Valid reports whether d is one of the known alert directions.
func (d AlertDirection) Valid() bool {
	return d == AlertAbove || d == AlertBelow
}

// Alert is a per-user price-threshold rule. An alert goes inactive exactly
// once, by one of two paths with different retention: the sweep deactivates it
// when it triggers (row retained for history), or its owner deletes it (row
// removed entirely). Duplicate rules for the same coin and target are allowed;
// they express user intent and are not deduplicated.
type Alert struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	Coin        string         `json:"coin"`
	TargetPrice float64        `json:"target_price"`
	Direction   AlertDirection `json:"direction"`
	Active      bool           `json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Triggered evaluates the threshold predicate against a current price.
// Equality counts as triggered in both directions.
func (a Alert) Triggered(price float64) bool {
	switch a.Direction {
	case AlertAbove:
		return price >= a.TargetPrice
	case AlertBelow:
		return price <= a.TargetPrice
	default:
		return false
	}
}
