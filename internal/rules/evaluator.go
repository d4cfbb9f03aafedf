package rules

import (
	"sort"

	"github.com/atlas-wheel/wheel-core/pkg/types"
)

// EvaluateRules runs the rules whose Phase matches the portfolio's current
// phase, in ascending priority order, and returns the first non-nil signal.
// If none fires, or no rule matches the phase, the result is HOLD. Rules are
// stable-sorted so that two rules sharing a priority always run in the order
// they were supplied.
func EvaluateRules(rules []Rule, market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) *types.Signal {
	applicable := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Phase() == portfolio.Phase {
			applicable = append(applicable, r)
		}
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Priority() < applicable[j].Priority()
	})

	for _, r := range applicable {
		if sig := r.Evaluate(market, portfolio, cfg); sig != nil {
			return sig
		}
	}

	hold := types.HoldSignal()
	return &hold
}
