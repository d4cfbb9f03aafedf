// Package rules holds the priority-ordered collection of pure predicates
// that turn a market observation and portfolio state into strategy intent.
// A rule gates on phase and on the presence of the configuration block it
// needs, returning nil otherwise; it never mutates its arguments and
// consults no data source beyond them.
package rules

import (
	"github.com/atlas-wheel/wheel-core/pkg/types"
	"github.com/atlas-wheel/wheel-core/pkg/utils"
)

// Rule is one named, prioritized predicate. Lower Priority runs first.
type Rule interface {
	Name() string
	Description() string
	Phase() types.Phase
	Priority() int
	Evaluate(market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) *types.Signal
}

// effectiveVol returns the market's own IV when present, else the
// config fallback.
func effectiveVol(market types.MarketSnapshot, cfg *types.StrategyConfig) float64 {
	return market.EffectiveIV(cfg.ImpliedVol)
}

// ivRVMultiplier is the shared IV/RV delta-adjustment helper. Absent the
// iv_rv_spread block, or without a usable realized-vol reading, it is a
// no-op multiplier of 1.0.
func ivRVMultiplier(market types.MarketSnapshot, cfg *types.StrategyConfig) float64 {
	if cfg.IVRVSpread == nil || market.RealizedVol == nil || *market.RealizedVol <= 0 {
		return 1.0
	}
	vol := effectiveVol(market, cfg)
	spread := cfg.IVRVSpread
	return utils.Clamp(vol/(*market.RealizedVol), spread.MinMultiplier, spread.MaxMultiplier)
}

// cycleT converts a config's cycle length into a Black-Scholes time horizon
// in years.
func cycleT(cfg *types.StrategyConfig) float64 {
	return float64(cfg.CycleLengthDays) / 365.0
}
