package domain

import "time"

// AmountEpsilon is the tolerance below which a position amount is treated as
// zero. Repeated float64 buys and sells can leave dust like 1e-17 behind; a
// sell that drives the amount under this threshold removes the position.
const AmountEpsilon = 1e-9

// Position is a user's current holdings in one coin, derived from the
// transaction log. AvgPrice is the amount-weighted average purchase price of
// the units currently held; it changes only on buys, never on sells.
type Position struct {
	UserID    int64     `json:"user_id"`
	Coin      string    `json:"coin"`
	Amount    float64   `json:"amount"`
	AvgPrice  float64   `json:"avg_price"`
	CreatedAt time.Time `json:"created_at"`
}

// ApplyBuy folds a buy of amount units at unitPrice into the position and
// returns the result. The average price becomes the amount-weighted mean of
// the old cost basis and the new purchase, which makes the final AvgPrice
// independent of the order the buys arrived in.
func (p Position) ApplyBuy(amount, unitPrice float64) Position {
	newAmount := p.Amount + amount
	p.AvgPrice = (p.Amount*p.AvgPrice + amount*unitPrice) / newAmount
	p.Amount = newAmount
	return p
}

// ApplySell reduces the position by amount units. The average price is left
// untouched: selling realizes P&L but does not change the cost basis of the
// remaining units. The second return value is true when the sell empties the
// position (amount within AmountEpsilon of zero) and the row should be
// removed.
func (p Position) ApplySell(amount float64) (Position, bool) {
	p.Amount -= amount
	return p, p.Amount <= AmountEpsilon
}

// InvestedValue is the cost basis of the whole position.
func (p Position) InvestedValue() float64 {
	return p.Amount * p.AvgPrice
}
