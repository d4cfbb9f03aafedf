// Package wheelcore is the public surface of the backtest engine: the five
// pure functions a UI or future live-trading integration calls. Everything
// beneath internal/ is free to change; this package's signatures are the
// stable contract.
package wheelcore

import (
	"go.uber.org/zap"

	"github.com/atlas-wheel/wheel-core/internal/backtester"
	"github.com/atlas-wheel/wheel-core/internal/insights"
	"github.com/atlas-wheel/wheel-core/internal/montecarlo"
	"github.com/atlas-wheel/wheel-core/internal/priceseries"
	"github.com/atlas-wheel/wheel-core/internal/rules"
	"github.com/atlas-wheel/wheel-core/pkg/types"
)

// GeneratePrices produces a deterministic price path (and, for
// Heston-family models, an instantaneous-vol path) for the given params.
func GeneratePrices(params types.PriceParams) (*types.PricePath, error) {
	return priceseries.Generate(params)
}

// Simulate runs one deterministic pass of the wheel strategy over prices,
// using the default rule set and a simulated executor.
func Simulate(prices []float64, ivPath []float64, cfg *types.StrategyConfig) backtester.Result {
	return backtester.Simulate(prices, ivPath, rules.DefaultRules(), cfg)
}

// SimulateWithRules is Simulate with a caller-supplied rule set, for
// callers exercising a custom strategy variant.
func SimulateWithRules(prices []float64, ivPath []float64, ruleSet []rules.Rule, cfg *types.StrategyConfig) backtester.Result {
	return backtester.Simulate(prices, ivPath, ruleSet, cfg)
}

// RunMonteCarlo generates numRuns independent seeded paths under
// marketParams, simulates each with the default rule set, and returns the
// aggregated result. logger and metrics may both be nil.
func RunMonteCarlo(logger *zap.Logger, metrics *montecarlo.Metrics, marketParams types.PriceParams, cfg *types.StrategyConfig, numRuns int) (types.MonteCarloResult, error) {
	return montecarlo.RunMonteCarlo(logger, metrics, marketParams, cfg, rules.DefaultRules(), numRuns)
}

// RerunSingle regenerates one seed's price path and re-simulates it, for
// inspecting a specific run surfaced by a prior Monte Carlo result.
func RerunSingle(marketParams types.PriceParams, cfg *types.StrategyConfig, seed uint64) (*types.PricePath, backtester.Result, error) {
	return montecarlo.RerunSingle(marketParams, cfg, rules.DefaultRules(), seed)
}

// GenerateInsights reduces a Monte Carlo result into tagged advisories.
func GenerateInsights(mc types.MonteCarloResult, cfg *types.StrategyConfig) []types.Insight {
	return insights.Generate(mc, cfg)
}
