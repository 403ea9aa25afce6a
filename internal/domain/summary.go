package domain

// PositionDetail is one valued position inside a PortfolioSummary.
type PositionDetail struct {
	Position
	CurrentPrice  float64 `json:"current_price"`
	CurrentValue  float64 `json:"current_value"`
	InvestedValue float64 `json:"invested_value"`
	PnL           float64 `json:"pnl"`
	PnLPercent    float64 `json:"pnl_percent"`
}

// PortfolioSummary is a point-in-time valuation of a user's holdings. An
// empty portfolio is a valid summary with zero totals and no detail rows.
type PortfolioSummary struct {
	TotalInvested   float64          `json:"total_invested"`
	TotalCurrent    float64          `json:"total_current"`
	TotalPnL        float64          `json:"total_pnl"`
	TotalPnLPercent float64          `json:"total_pnl_percent"`
	Positions       int              `json:"positions"`
	PositionsDetail []PositionDetail `json:"positions_detail"`
}
