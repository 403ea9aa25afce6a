package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlertTriggered(t *testing.T) {
	tests := []struct {
		name      string
		direction AlertDirection
		target    float64
		price     float64
		want      bool
	}{
		{"below fires under target", AlertBelow, 3000, 2999, true},
		{"below fires on exact target", AlertBelow, 3000, 3000, true},
		{"below holds above target", AlertBelow, 3000, 3001, false},
		{"above fires over target", AlertAbove, 50000, 50001, true},
		{"above fires on exact target", AlertAbove, 50000, 50000, true},
		{"above holds under target", AlertAbove, 50000, 49999, false},
		{"unknown direction never fires", AlertDirection("sideways"), 100, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Alert{Coin: "eth", TargetPrice: tt.target, Direction: tt.direction, Active: true}
			assert.Equal(t, tt.want, a.Triggered(tt.price))
		})
	}
}

func TestDirectionValid(t *testing.T) {
	assert.True(t, AlertAbove.Valid())
	assert.True(t, AlertBelow.Valid())
	assert.False(t, AlertDirection("").Valid())
}

func TestSideValid(t *testing.T) {
	assert.True(t, SideBuy.Valid())
	assert.True(t, SideSell.Valid())
	assert.False(t, Side("short").Valid())
}
