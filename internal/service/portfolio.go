package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avelichko/foliobot/internal/domain"
)

// PortfolioValuer builds point-in-time P&L snapshots of a user's holdings.
type PortfolioValuer struct {
	store  domain.LedgerStore
	lookup domain.PriceLookup
	logger *slog.Logger
}

// NewPortfolioValuer creates a PortfolioValuer. lookup is typically
// (*PriceService).CurrentPrice.
func NewPortfolioValuer(store domain.LedgerStore, lookup domain.PriceLookup, logger *slog.Logger) *PortfolioValuer {
	return &PortfolioValuer{
		store:  store,
		lookup: lookup,
		logger: logger,
	}
}

// Summarize values every position at the current price and aggregates P&L.
// When a price cannot be fetched the position is valued at its own average
// price, which shows as zero P&L for that coin rather than failing the whole
// snapshot. An empty portfolio yields a summary with zero totals.
func (v *PortfolioValuer) Summarize(ctx context.Context, userID int64) (domain.PortfolioSummary, error) {
	positions, err := v.store.Positions(ctx, userID)
	if err != nil {
		return domain.PortfolioSummary{}, fmt.Errorf("portfolio: positions for %d: %w", userID, err)
	}

	summary := domain.PortfolioSummary{
		Positions:       len(positions),
		PositionsDetail: make([]domain.PositionDetail, 0, len(positions)),
	}

	for _, pos := range positions {
		price, err := v.lookup(ctx, pos.Coin)
		if err != nil {
			v.logger.WarnContext(ctx, "portfolio: price unavailable, valuing at cost",
				slog.String("coin", pos.Coin),
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
			price = pos.AvgPrice
		}

		invested := pos.InvestedValue()
		current := pos.Amount * price
		pnl := current - invested

		detail := domain.PositionDetail{
			Position:      pos,
			CurrentPrice:  price,
			CurrentValue:  current,
			InvestedValue: invested,
			PnL:           pnl,
		}
		if invested > 0 {
			detail.PnLPercent = pnl / invested * 100
		}

		summary.TotalInvested += invested
		summary.TotalCurrent += current
		summary.PositionsDetail = append(summary.PositionsDetail, detail)
	}

	summary.TotalPnL = summary.TotalCurrent - summary.TotalInvested
	if summary.TotalInvested > 0 {
		summary.TotalPnLPercent = summary.TotalPnL / summary.TotalInvested * 100
	}

	return summary, nil
}
