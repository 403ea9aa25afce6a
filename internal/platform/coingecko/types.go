package coingecko

import "github.com/avelichko/foliobot/internal/domain"

// apiCoin mirrors one element of the /coins/markets response.
type apiCoin struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	MarketCap    float64 `json:"market_cap"`
	Change24hPct float64 `json:"price_change_percentage_24h"`
}

func (c *apiCoin) toDomain() domain.Coin {
	return domain.Coin{
		Symbol:       c.Symbol,
		Name:         c.Name,
		CurrentPrice: c.CurrentPrice,
		Change24hPct: c.Change24hPct,
		MarketCap:    c.MarketCap,
	}
}

// apiGlobal mirrors the /global response envelope.
type apiGlobal struct {
	Data struct {
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
		MarketCapChangePct  float64            `json:"market_cap_change_percentage_24h_usd"`
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	} `json:"data"`
}

func (g *apiGlobal) toDomain() domain.GlobalMarket {
	return domain.GlobalMarket{
		TotalMarketCap:  g.Data.TotalMarketCap["usd"],
		MarketCapChange: g.Data.MarketCapChangePct,
		BTCDominancePct: g.Data.MarketCapPercentage["btc"],
	}
}
