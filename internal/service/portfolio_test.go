package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/foliobot/internal/domain"
)

func TestPortfolioValuerSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("empty portfolio yields zero totals", func(t *testing.T) {
		oracle := &fakeOracle{prices: map[string]float64{}}
		prices := NewPriceService(oracle, nil, testLogger())
		valuer := NewPortfolioValuer(newFakeLedgerStore(), prices.CurrentPrice, testLogger())

		summary, err := valuer.Summarize(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, summary.TotalInvested)
		assert.Zero(t, summary.TotalCurrent)
		assert.Zero(t, summary.TotalPnL)
		assert.Zero(t, summary.TotalPnLPercent)
		assert.Zero(t, summary.Positions)
		assert.Empty(t, summary.PositionsDetail)
	})

	t.Run("values positions and aggregates pnl", func(t *testing.T) {
		store := newFakeLedgerStore()
		now := time.Now().UTC()
		_, err := store.Record(ctx, domain.Transaction{UserID: 1, Coin: "btc", Side: domain.SideBuy, Amount: 0.1, UnitPrice: 50000, CreatedAt: now})
		require.NoError(t, err)
		_, err = store.Record(ctx, domain.Transaction{UserID: 1, Coin: "btc", Side: domain.SideBuy, Amount: 0.1, UnitPrice: 60000, CreatedAt: now})
		require.NoError(t, err)

		oracle := &fakeOracle{prices: map[string]float64{"btc": 58000}}
		prices := NewPriceService(oracle, nil, testLogger())
		valuer := NewPortfolioValuer(store, prices.CurrentPrice, testLogger())

		summary, err := valuer.Summarize(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, 1, summary.Positions)
		require.Len(t, summary.PositionsDetail, 1)

		d := summary.PositionsDetail[0]
		assert.InDelta(t, 58000.0, d.CurrentPrice, 1e-9)
		assert.InDelta(t, 11000.0, d.InvestedValue, 1e-6)
		assert.InDelta(t, 11600.0, d.CurrentValue, 1e-6)
		assert.InDelta(t, 600.0, d.PnL, 1e-6)
		assert.InDelta(t, 5.4545, d.PnLPercent, 1e-3)

		assert.InDelta(t, 11000.0, summary.TotalInvested, 1e-6)
		assert.InDelta(t, 11600.0, summary.TotalCurrent, 1e-6)
		assert.InDelta(t, 600.0, summary.TotalPnL, 1e-6)
		assert.InDelta(t, summary.TotalCurrent-summary.TotalInvested, summary.TotalPnL, 1e-9)
	})

	t.Run("price outage falls back to cost basis", func(t *testing.T) {
		store := newFakeLedgerStore()
		now := time.Now().UTC()
		_, err := store.Record(ctx, domain.Transaction{UserID: 1, Coin: "btc", Side: domain.SideBuy, Amount: 0.1, UnitPrice: 50000, CreatedAt: now})
		require.NoError(t, err)
		_, err = store.Record(ctx, domain.Transaction{UserID: 1, Coin: "eth", Side: domain.SideBuy, Amount: 2, UnitPrice: 3000, CreatedAt: now})
		require.NoError(t, err)

		// eth has no quote; btc is up.
		oracle := &fakeOracle{prices: map[string]float64{"btc": 60000}}
		prices := NewPriceService(oracle, nil, testLogger())
		valuer := NewPortfolioValuer(store, prices.CurrentPrice, testLogger())

		summary, err := valuer.Summarize(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, 2, summary.Positions)

		for _, d := range summary.PositionsDetail {
			if d.Coin == "eth" {
				assert.InDelta(t, 3000.0, d.CurrentPrice, 1e-9)
				assert.Zero(t, d.PnL)
				assert.Zero(t, d.PnLPercent)
			} else {
				assert.InDelta(t, 1000.0, d.PnL, 1e-6)
			}
		}
		assert.InDelta(t, 1000.0, summary.TotalPnL, 1e-6)
	})
}
