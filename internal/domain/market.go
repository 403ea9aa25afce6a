package domain

// Coin is market metadata for a single currency as reported by the oracle.
type Coin struct {
	Symbol       string  `json:"symbol"` // lowercase, e.g. "btc"
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	Change24hPct float64 `json:"change_24h_pct"`
	MarketCap    float64 `json:"market_cap"`
}

// GlobalMarket is an aggregate snapshot of the whole market.
type GlobalMarket struct {
	TotalMarketCap  float64 `json:"total_market_cap"`
	MarketCapChange float64 `json:"market_cap_change_pct_24h"`
	BTCDominancePct float64 `json:"btc_dominance_pct"`
}
