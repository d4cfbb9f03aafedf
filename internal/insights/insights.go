// Package insights reduces an aggregate Monte Carlo result into a short
// list of tagged, human-readable advisories. Every rule here is a pure
// function of the result and config; none consults external state.
package insights

import (
	"math"

	"github.com/atlas-wheel/wheel-core/pkg/types"
)

// Generate reduces mc into the advisories the rules below produce. Order
// follows the rule order of the specification, not severity.
func Generate(mc types.MonteCarloResult, cfg *types.StrategyConfig) []types.Insight {
	var out []types.Insight

	out = append(out, performanceInsight(mc))
	out = append(out, alphaInsight(mc))

	if ins := downsideInsight(mc); ins != nil {
		out = append(out, *ins)
	}

	out = append(out, regimeVulnerabilityInsights(mc)...)

	if ins := drawdownInsight(mc); ins != nil {
		out = append(out, *ins)
	}
	if ins := winRateInsight(mc); ins != nil {
		out = append(out, *ins)
	}

	if ins := assignmentFrequencyInsight(mc); ins != nil {
		out = append(out, *ins)
	}

	return out
}

func performanceInsight(mc types.MonteCarloResult) types.Insight {
	switch {
	case mc.MeanSharpe < 0:
		return types.Insight{
			Level:   types.InsightNegative,
			Title:   "Poor Risk-Adjusted Returns",
			Message: "Mean Sharpe ratio across simulated runs is negative.",
		}
	case mc.MeanSharpe < mc.MeanBenchmarkSharpe:
		return types.Insight{
			Level:   types.InsightWarning,
			Title:   "Underperforming Benchmark",
			Message: "Mean Sharpe ratio trails buy-and-hold on a risk-adjusted basis.",
		}
	default:
		return types.Insight{
			Level:   types.InsightPositive,
			Title:   "Strong Risk-Adjusted Returns",
			Message: "Mean Sharpe ratio meets or exceeds buy-and-hold.",
		}
	}
}

func alphaInsight(mc types.MonteCarloResult) types.Insight {
	alpha := mc.MeanAPR - mc.MeanBenchmarkAPR
	switch {
	case alpha > 5:
		return types.Insight{
			Level:   types.InsightPositive,
			Title:   "Significant Alpha",
			Message: "Mean APR exceeds buy-and-hold by more than 5 percentage points.",
		}
	case alpha < -5:
		return types.Insight{
			Level:   types.InsightNegative,
			Title:   "Negative Alpha",
			Message: "Mean APR trails buy-and-hold by more than 5 percentage points.",
		}
	default:
		return types.Insight{
			Level:   types.InsightNeutral,
			Title:   "Similar to Buy & Hold",
			Message: "Mean APR is within 5 percentage points of buy-and-hold.",
		}
	}
}

func downsideInsight(mc types.MonteCarloResult) *types.Insight {
	if mc.MeanSharpe > 0 && mc.MeanSortino > 1.5*mc.MeanSharpe {
		return &types.Insight{
			Level:   types.InsightPositive,
			Title:   "Downside Well Contained",
			Message: "Sortino ratio comfortably exceeds Sharpe, indicating losses cluster less than gains.",
		}
	}
	if mc.MeanSharpe < 0 && mc.MeanSortino > 1.2*mc.MeanSharpe {
		return &types.Insight{
			Level:   types.InsightWarning,
			Title:   "High Downside Volatility",
			Message: "Sortino ratio stays close to an already-negative Sharpe ratio.",
		}
	}
	return nil
}

func regimeVulnerabilityInsights(mc types.MonteCarloResult) []types.Insight {
	var out []types.Insight
	for _, rs := range mc.RegimeBreakdown {
		if rs.Count > 0 && rs.MeanAlpha < -10 {
			out = append(out, types.Insight{
				Level:   types.InsightWarning,
				Title:   "Regime Vulnerability: " + string(rs.Regime),
				Message: "Alpha is significantly negative in the " + string(rs.Regime) + " regime.",
			})
		}
	}
	return out
}

func drawdownInsight(mc types.MonteCarloResult) *types.Insight {
	if mc.MeanBenchmarkAPR == 0 {
		return nil
	}
	estimatedCapital := math.Abs(mc.MeanBenchmarkPL / (mc.MeanBenchmarkAPR / 100))
	if estimatedCapital > 0 && mc.MeanMaxDrawdown > 0.5*estimatedCapital {
		return &types.Insight{
			Level:   types.InsightNegative,
			Title:   "Large Average Drawdown",
			Message: "Mean maximum drawdown exceeds half of estimated capital at risk.",
		}
	}
	return nil
}

func winRateInsight(mc types.MonteCarloResult) *types.Insight {
	if mc.WinnerRate < 0.4 {
		return &types.Insight{
			Level:   types.InsightWarning,
			Title:   "Low Win Rate",
			Message: "Fewer than 40% of simulated runs finished with positive total P/L.",
		}
	}
	return nil
}

func assignmentFrequencyInsight(mc types.MonteCarloResult) *types.Insight {
	if mc.NumRuns == 0 {
		return nil
	}

	meanFullCycles := meanOfInts(mc.Runs, func(r types.RunSummary) int { return r.FullCycles })
	meanAssignments := meanOfInts(mc.Runs, func(r types.RunSummary) int { return r.Assignments })

	if meanFullCycles == 0 || meanAssignments < 3 {
		return nil
	}

	ratio := meanAssignments / meanFullCycles
	if ratio > 3 {
		return &types.Insight{
			Level:      types.InsightWarning,
			Title:      "Frequent Assignment",
			Message:    "Assignments are running well ahead of completed full cycles.",
			Suggestion: "Consider widening target delta or raising the minimum premium threshold.",
		}
	}
	if meanAssignments >= 2 {
		return &types.Insight{
			Level:   types.InsightNeutral,
			Title:   "Moderate Assignment Frequency",
			Message: "Assignments occur at a typical pace relative to completed cycles.",
		}
	}
	return nil
}

func meanOfInts(runs []types.RunSummary, field func(types.RunSummary) int) float64 {
	if len(runs) == 0 {
		return 0
	}
	var sum int
	for _, r := range runs {
		sum += field(r)
	}
	return float64(sum) / float64(len(runs))
}
