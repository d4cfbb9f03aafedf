package pricing_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlas-wheel/wheel-core/internal/pricing"
)

func TestCallPutParity(t *testing.T) {
	spot, strike, tYears, r, sigma := 2500.0, 2400.0, 0.25, 0.05, 0.6

	call := pricing.CallPrice(spot, strike, tYears, r, sigma)
	put := pricing.PutPrice(spot, strike, tYears, r, sigma)

	lhs := call - put
	rhs := spot - strike*math.Exp(-r*tYears)

	assert.InDelta(t, rhs, lhs, 1e-6)
}

func TestDeltaRanges(t *testing.T) {
	spot, strike, tYears, r, sigma := 2500.0, 2400.0, 0.25, 0.05, 0.6

	cd := pricing.CallDelta(spot, strike, tYears, r, sigma)
	pd := pricing.PutDelta(spot, strike, tYears, r, sigma)

	assert.Greater(t, cd, 0.0)
	assert.Less(t, cd, 1.0)
	assert.Greater(t, pd, -1.0)
	assert.Less(t, pd, 0.0)
	assert.InDelta(t, 1.0, cd-pd, 1e-9)
}

func TestVegaIsPositive(t *testing.T) {
	v := pricing.Vega(2500, 2400, 0.25, 0.05, 0.6)
	assert.Greater(t, v, 0.0)
}
