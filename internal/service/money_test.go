package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstrelkov/bookshop/internal/repo"
)

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	// 2 x 10.00 + 1 x 25.00 at 8% tax: 45.00 / 3.60 / 48.60.
	lines := []repo.CartLine{
		{BookID: 1, UnitPriceCents: 1000, Quantity: 2},
		{BookID: 2, UnitPriceCents: 2500, Quantity: 1},
	}

	subtotal, tax, total := computeTotals(lines, 800)
	assert.Equal(t, int64(4500), subtotal)
	assert.Equal(t, int64(360), tax)
	assert.Equal(t, int64(4860), total)
}

func TestComputeTotals_RoundsHalfUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cents   int64
		wantTax int64
	}{
		{name: "rounds down below half a cent", cents: 1, wantTax: 0}, // 0.08 cents
		{name: "rounds up from half a cent", cents: 7, wantTax: 1},    // 0.56 cents
		{name: "exact boundary", cents: 625, wantTax: 50},             // 50.0 cents
		{name: "empty cart", cents: 0, wantTax: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var lines []repo.CartLine
			if tc.cents > 0 {
				lines = []repo.CartLine{{BookID: 1, UnitPriceCents: tc.cents, Quantity: 1}}
			}
			subtotal, tax, total := computeTotals(lines, 800)
			assert.Equal(t, tc.cents, subtotal)
			assert.Equal(t, tc.wantTax, tax)
			assert.Equal(t, tc.cents+tc.wantTax, total)
		})
	}
}

func TestNewTrackingNumber(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tn := newTrackingNumber()
		require.True(t, strings.HasPrefix(tn, "TRK"), "tracking number %q missing prefix", tn)
		require.False(t, seen[tn], "tracking number %q repeated", tn)
		seen[tn] = true
	}
}
