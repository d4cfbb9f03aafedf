package execution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-wheel/wheel-core/internal/execution"
	"github.com/atlas-wheel/wheel-core/pkg/types"
)

func testConfig(t *testing.T) *types.StrategyConfig {
	t.Helper()
	cfg, err := types.NewStrategyConfig(types.StrategyConfig{
		TargetDelta: 0.30, ImpliedVol: 0.6, RiskFreeRate: 0.05,
		CycleLengthDays: 7, Contracts: 2, BidAskSpreadPct: 0.05, FeePerTrade: 0.5,
	})
	require.NoError(t, err)
	return cfg
}

func TestExecuteSellPutEmitsSoldAndPremium(t *testing.T) {
	cfg := testConfig(t)
	exec := execution.NewSimulatedExecutor()
	signal := types.Signal{Kind: types.SignalSellPut, Strike: 2400, Delta: -0.3, Premium: 25}
	market := types.MarketSnapshot{Day: 10, Spot: 2500}

	events := exec.Execute(signal, market, &types.PortfolioState{Phase: types.PhaseIdleCash}, cfg)
	require.Len(t, events, 2)

	assert.Equal(t, types.EventOptionSold, events[0].Kind)
	assert.Equal(t, types.OptionPut, events[0].OptionType)
	assert.Equal(t, 17, events[0].ExpiryDay)

	assert.Equal(t, types.EventPremiumCollected, events[1].Kind)
	assert.Equal(t, 50.0, events[1].Gross)
	assert.Equal(t, 49.0, events[1].Net)
}

func TestExecuteSkipEmitsCycleSkipped(t *testing.T) {
	cfg := testConfig(t)
	exec := execution.NewSimulatedExecutor()
	events := exec.Execute(types.Signal{Kind: types.SignalSkip}, types.MarketSnapshot{Day: 1}, &types.PortfolioState{}, cfg)
	require.Len(t, events, 1)
	assert.Equal(t, types.EventCycleSkipped, events[0].Kind)
}

func TestExecuteHoldEmitsNothing(t *testing.T) {
	cfg := testConfig(t)
	exec := execution.NewSimulatedExecutor()
	events := exec.Execute(types.HoldSignal(), types.MarketSnapshot{}, &types.PortfolioState{}, cfg)
	assert.Empty(t, events)
}

func TestResolveExpirationPutAssignment(t *testing.T) {
	cfg := testConfig(t)
	exec := execution.NewSimulatedExecutor()
	p := &types.PortfolioState{
		Phase:      types.PhaseShortPut,
		OpenOption: &types.OpenOption{Type: types.OptionPut, Strike: 2400, OpenDay: 0, ExpiryDay: 7},
	}
	market := types.MarketSnapshot{Day: 7, Spot: 2300}

	events := exec.ResolveExpiration(market, p, cfg)
	require.Len(t, events, 2)
	assert.Equal(t, types.EventEthBought, events[0].Kind)
	assert.Equal(t, 2400.0, events[0].Price)
	assert.Equal(t, 2.0, events[0].Size)
	assert.Equal(t, types.EventOptionExpired, events[1].Kind)
	assert.True(t, events[1].Assigned)
}

func TestResolveExpirationPutOTM(t *testing.T) {
	cfg := testConfig(t)
	exec := execution.NewSimulatedExecutor()
	p := &types.PortfolioState{
		Phase:      types.PhaseShortPut,
		OpenOption: &types.OpenOption{Type: types.OptionPut, Strike: 2400, OpenDay: 0, ExpiryDay: 7},
	}
	market := types.MarketSnapshot{Day: 7, Spot: 2500}

	events := exec.ResolveExpiration(market, p, cfg)
	require.Len(t, events, 1)
	assert.Equal(t, types.EventOptionExpired, events[0].Kind)
	assert.False(t, events[0].Assigned)
}

func TestResolveExpirationNoOpenOptionIsEmpty(t *testing.T) {
	cfg := testConfig(t)
	exec := execution.NewSimulatedExecutor()
	events := exec.ResolveExpiration(types.MarketSnapshot{Day: 5}, &types.PortfolioState{}, cfg)
	assert.Empty(t, events)
}

func TestResolveExpirationNotYetDue(t *testing.T) {
	cfg := testConfig(t)
	exec := execution.NewSimulatedExecutor()
	p := &types.PortfolioState{
		Phase:      types.PhaseShortPut,
		OpenOption: &types.OpenOption{Type: types.OptionPut, Strike: 2400, OpenDay: 0, ExpiryDay: 7},
	}
	events := exec.ResolveExpiration(types.MarketSnapshot{Day: 6, Spot: 2000}, p, cfg)
	assert.Empty(t, events, "expiry is checked on day >= expiry_day, not before")
}

func TestExecuteClosePositionWithNoPositionIsEmpty(t *testing.T) {
	cfg := testConfig(t)
	exec := execution.NewSimulatedExecutor()
	events := exec.Execute(types.Signal{Kind: types.SignalClosePosition}, types.MarketSnapshot{Spot: 2500}, &types.PortfolioState{}, cfg)
	assert.Empty(t, events)
}

func TestExecuteRollWithNoOpenOptionIsEmpty(t *testing.T) {
	cfg := testConfig(t)
	exec := execution.NewSimulatedExecutor()
	events := exec.Execute(types.Signal{Kind: types.SignalRoll}, types.MarketSnapshot{Spot: 2500}, &types.PortfolioState{}, cfg)
	assert.Empty(t, events)
}
