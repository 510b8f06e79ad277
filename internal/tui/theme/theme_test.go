package theme

import (
	"testing"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestByNameFallsBack(t *testing.T) {
	assert.Equal(t, "tokyo-night", ByName("tokyo-night").Name)
	assert.Equal(t, FlexokiDark.Name, ByName("missing").Name)
}

func TestKnown(t *testing.T) {
	for _, n := range Names() {
		assert.True(t, Known(n), n)
	}
	assert.False(t, Known("catppuccin-mocha"))
}

func TestTrendColor(t *testing.T) {
	th := FlexokiDark
	assert.Equal(t, th.Green, th.TrendColor(model.TrendUp))
	assert.Equal(t, th.Red, th.TrendColor(model.TrendDown))
	assert.Equal(t, th.TextMuted, th.TrendColor(model.TrendStable))
}

func TestSpendColor(t *testing.T) {
	th := FlexokiDark
	assert.Equal(t, th.Green, th.SpendColor(20))
	assert.Equal(t, th.Yellow, th.SpendColor(50))
	assert.Equal(t, th.Orange, th.SpendColor(80))
	assert.Equal(t, th.Orange, th.SpendColor(100))
	assert.Equal(t, th.Red, th.SpendColor(118))
}
