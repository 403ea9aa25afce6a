package domain

import "time"

// Side is the direction of a portfolio transaction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether s is one of the known transaction sides.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Transaction is an immutable record of a single buy or sell. Rows are
// append-only: they are never updated or deleted once written.
type Transaction struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Coin      string    `json:"coin"` // lowercase symbol, e.g. "btc"
	Side      Side      `json:"side"`
	Amount    float64   `json:"amount"`
	UnitPrice float64   `json:"unit_price"`
	Total     float64   `json:"total"` // Amount * UnitPrice at record time
	CreatedAt time.Time `json:"created_at"`
}
