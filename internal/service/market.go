package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/avelichko/foliobot/internal/domain"
)

// snapshotTopN is how many coins the market snapshot covers.
const snapshotTopN = 10

// Market serves market-overview data: ranked coins, movers, and the daily
// AI-written summary.
type Market struct {
	prices     *PriceService
	summarizer domain.Summarizer
	logger     *slog.Logger
}

// NewMarket creates a Market service. summarizer may be nil, in which case
// DailySummary returns the raw snapshot text.
func NewMarket(prices *PriceService, summarizer domain.Summarizer, logger *slog.Logger) *Market {
	return &Market{
		prices:     prices,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Snapshot renders the current market state as text: global figures followed
// by the top coins with price and 24h change.
func (m *Market) Snapshot(ctx context.Context) (string, error) {
	global, err := m.prices.Global(ctx)
	if err != nil {
		return "", fmt.Errorf("market: snapshot: %w", err)
	}
	coins, err := m.prices.TopCoins(ctx, snapshotTopN)
	if err != nil {
		return "", fmt.Errorf("market: snapshot: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Global market cap: $%.0f (%+.2f%% 24h), BTC dominance %.1f%%\n",
		global.TotalMarketCap, global.MarketCapChange, global.BTCDominancePct)
	for i, c := range coins {
		fmt.Fprintf(&b, "%d. %s (%s): $%.4g (%+.2f%% 24h)\n",
			i+1, c.Name, strings.ToUpper(c.Symbol), c.CurrentPrice, c.Change24hPct)
	}
	return b.String(), nil
}

// Movers returns the best and worst 24h performers among the top coins.
func (m *Market) Movers(ctx context.Context, n int) (gainers, losers []domain.Coin, err error) {
	coins, err := m.prices.TopCoins(ctx, snapshotTopN*5)
	if err != nil {
		return nil, nil, fmt.Errorf("market: movers: %w", err)
	}
	if n <= 0 {
		n = 5
	}

	sorted := make([]domain.Coin, len(coins))
	copy(sorted, coins)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Change24hPct > sorted[j].Change24hPct
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	gainers = sorted[:n]

	losers = make([]domain.Coin, n)
	for i := 0; i < n; i++ {
		losers[i] = sorted[len(sorted)-1-i]
	}
	return gainers, losers, nil
}

// DailySummary builds a market snapshot and condenses it into a short
// natural-language recap. When the summarizer is missing or fails, the raw
// snapshot goes out instead so the daily message never silently drops.
func (m *Market) DailySummary(ctx context.Context) (string, error) {
	snapshot, err := m.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("market: daily summary: %w", err)
	}

	if m.summarizer == nil {
		return snapshot, nil
	}

	text, err := m.summarizer.Summarize(ctx, snapshot)
	if err != nil {
		m.logger.WarnContext(ctx, "market: summarizer failed, sending raw snapshot",
			slog.String("error", err.Error()),
		)
		return snapshot, nil
	}
	return text, nil
}
