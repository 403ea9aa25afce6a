package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBuy(t *testing.T) {
	t.Run("first buy sets avg to unit price", func(t *testing.T) {
		p := Position{Coin: "btc"}.ApplyBuy(0.1, 50000)
		assert.InDelta(t, 0.1, p.Amount, 1e-12)
		assert.InDelta(t, 50000, p.AvgPrice, 1e-9)
	})

	t.Run("second buy averages by amount", func(t *testing.T) {
		p := Position{Coin: "btc"}.ApplyBuy(0.1, 50000).ApplyBuy(0.1, 60000)
		assert.InDelta(t, 0.2, p.Amount, 1e-12)
		assert.InDelta(t, 55000, p.AvgPrice, 1e-9)
	})

	t.Run("avg is order independent", func(t *testing.T) {
		type buy struct{ amount, price float64 }
		buys := []buy{{0.5, 30000}, {1.25, 41000}, {0.05, 58000}, {2, 22500}}

		forward := Position{}
		for _, b := range buys {
			forward = forward.ApplyBuy(b.amount, b.price)
		}

		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 10; i++ {
			shuffled := append([]buy(nil), buys...)
			rng.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			p := Position{}
			for _, b := range shuffled {
				p = p.ApplyBuy(b.amount, b.price)
			}
			assert.InDelta(t, forward.AvgPrice, p.AvgPrice, 1e-6)
			assert.InDelta(t, forward.Amount, p.Amount, 1e-9)
		}
	})
}

func TestApplySell(t *testing.T) {
	t.Run("sell keeps avg price", func(t *testing.T) {
		p := Position{Coin: "btc"}.ApplyBuy(0.1, 50000).ApplyBuy(0.1, 60000)

		p, empty := p.ApplySell(0.15)
		require.False(t, empty)
		assert.InDelta(t, 0.05, p.Amount, 1e-12)
		assert.InDelta(t, 55000, p.AvgPrice, 1e-9)
	})

	t.Run("selling everything empties the position", func(t *testing.T) {
		p := Position{Coin: "eth"}.ApplyBuy(2, 3000)
		_, empty := p.ApplySell(2)
		assert.True(t, empty)
	})

	t.Run("float dust below epsilon empties the position", func(t *testing.T) {
		p := Position{Coin: "eth"}
		p = p.ApplyBuy(0.1, 3000).ApplyBuy(0.2, 3100)

		// 0.1+0.2 != 0.3 exactly in float64; the remainder must still count
		// as zero.
		p, empty := p.ApplySell(0.3)
		assert.True(t, empty, "residual amount %g should be treated as zero", p.Amount)
	})
}

func TestInvestedValue(t *testing.T) {
	p := Position{Amount: 0.2, AvgPrice: 55000}
	assert.InDelta(t, 11000, p.InvestedValue(), 1e-9)
}
