package wheel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlas-wheel/wheel-core/internal/wheel"
	"github.com/atlas-wheel/wheel-core/pkg/types"
)

func TestApplyEmptyEventsIsIdentity(t *testing.T) {
	s := wheel.NewPortfolio()
	out := wheel.ApplyEvents(s, nil)
	assert.Equal(t, *s, *out)
}

func TestApplyEventsIsAssociativeOverBatches(t *testing.T) {
	s := wheel.NewPortfolio()

	a := []types.Event{
		{Kind: types.EventOptionSold, OptionType: types.OptionPut, Strike: 2400, Delta: -0.3, Premium: 50, OpenDay: 0, ExpiryDay: 7},
		{Kind: types.EventPremiumCollected, Gross: 50, Net: 49.5},
	}
	b := []types.Event{
		{Kind: types.EventOptionExpired, OptionType: types.OptionPut, Assigned: true},
		{Kind: types.EventEthBought, Price: 2400, Size: 1},
	}

	sequential := wheel.ApplyEvents(wheel.ApplyEvents(s, a), b)
	combined := wheel.ApplyEvents(s, append(append([]types.Event{}, a...), b...))

	assert.Equal(t, *sequential, *combined)
}

func TestSnapshotIsIndependentOfLiveState(t *testing.T) {
	s := wheel.NewPortfolio()
	s.Position = &types.Position{Size: 1, EntryPrice: 100}

	snap := wheel.Snapshot(s)
	s.Position.EntryPrice = 999

	assert.Equal(t, 100.0, snap.Position.EntryPrice)
}

func TestPhaseAndPositionInvariantAcrossLifecycle(t *testing.T) {
	s := wheel.NewPortfolio()
	assertInvariant(t, s)

	s = wheel.ApplyEvents(s, []types.Event{
		{Kind: types.EventOptionSold, OptionType: types.OptionPut, Strike: 2400, OpenDay: 0, ExpiryDay: 7},
	})
	assertInvariant(t, s)

	s = wheel.ApplyEvents(s, []types.Event{
		{Kind: types.EventEthBought, Price: 2400, Size: 1},
		{Kind: types.EventOptionExpired, OptionType: types.OptionPut, Assigned: true},
	})
	assertInvariant(t, s)

	s = wheel.ApplyEvents(s, []types.Event{
		{Kind: types.EventOptionSold, OptionType: types.OptionCall, Strike: 2600, OpenDay: 7, ExpiryDay: 14},
	})
	assertInvariant(t, s)

	s = wheel.ApplyEvents(s, []types.Event{
		{Kind: types.EventEthSold, Price: 2600, Size: 1, PL: 200},
		{Kind: types.EventOptionExpired, OptionType: types.OptionCall, Assigned: true},
	})
	assertInvariant(t, s)
}

func assertInvariant(t *testing.T, s *types.PortfolioState) {
	t.Helper()
	hasPosition := s.Position != nil
	holding := s.Phase == types.PhaseHoldingEth || s.Phase == types.PhaseShortCall
	assert.Equal(t, holding, hasPosition, "position present iff phase is holding_eth or short_call")

	hasOption := s.OpenOption != nil
	shorting := s.Phase == types.PhaseShortPut || s.Phase == types.PhaseShortCall
	assert.Equal(t, shorting, hasOption, "open_option present iff phase is short_put or short_call")
}

func TestCounterMonotonicityNeverDecreases(t *testing.T) {
	s := wheel.NewPortfolio()
	before := *s

	s = wheel.ApplyEvents(s, []types.Event{
		{Kind: types.EventPremiumCollected, Gross: 10, Net: 9},
		{Kind: types.EventCycleSkipped},
	})

	assert.GreaterOrEqual(t, s.TotalPremiumCollected, before.TotalPremiumCollected)
	assert.GreaterOrEqual(t, s.TotalAssignments, before.TotalAssignments)
	assert.GreaterOrEqual(t, s.TotalSkippedCycles, before.TotalSkippedCycles)
}
