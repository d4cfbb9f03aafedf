package insights_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlas-wheel/wheel-core/internal/insights"
	"github.com/atlas-wheel/wheel-core/pkg/types"
)

// Scenario 6: mean_sharpe = -0.5, mean_benchmark_sharpe = 0.5.
func TestScenarioSixNegativeSharpeYieldsPoorRiskAdjustedReturns(t *testing.T) {
	mc := types.MonteCarloResult{
		NumRuns:             1,
		MeanSharpe:          -0.5,
		MeanBenchmarkSharpe: 0.5,
	}

	out := insights.Generate(mc, nil)
	require := out[0]
	assert.Equal(t, types.InsightNegative, require.Level)
	assert.Equal(t, "Poor Risk-Adjusted Returns", require.Title)
}

func TestPerformanceInsightUnderperformingBenchmark(t *testing.T) {
	mc := types.MonteCarloResult{MeanSharpe: 0.3, MeanBenchmarkSharpe: 0.8}
	out := insights.Generate(mc, nil)
	assert.Equal(t, types.InsightWarning, out[0].Level)
	assert.Equal(t, "Underperforming Benchmark", out[0].Title)
}

func TestAlphaInsightThresholds(t *testing.T) {
	positive := insights.Generate(types.MonteCarloResult{MeanAPR: 20, MeanBenchmarkAPR: 10}, nil)
	assert.Equal(t, "Significant Alpha", positive[1].Title)

	negative := insights.Generate(types.MonteCarloResult{MeanAPR: 5, MeanBenchmarkAPR: 15}, nil)
	assert.Equal(t, "Negative Alpha", negative[1].Title)

	neutral := insights.Generate(types.MonteCarloResult{MeanAPR: 10, MeanBenchmarkAPR: 11}, nil)
	assert.Equal(t, "Similar to Buy & Hold", neutral[1].Title)
}

func TestRegimeVulnerabilityWarnsOnNegativeAlpha(t *testing.T) {
	mc := types.MonteCarloResult{
		RegimeBreakdown: []types.RegimeStats{
			{Regime: types.RegimeBear, Count: 5, MeanAlpha: -15},
			{Regime: types.RegimeBull, Count: 5, MeanAlpha: 2},
			{Regime: types.RegimeSideways, Count: 0, MeanAlpha: 0},
		},
	}
	out := insights.Generate(mc, nil)

	found := false
	for _, ins := range out {
		if ins.Title == "Regime Vulnerability: bear" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWinRateInsightFiresBelowThreshold(t *testing.T) {
	mc := types.MonteCarloResult{WinnerRate: 0.25}
	out := insights.Generate(mc, nil)

	found := false
	for _, ins := range out {
		if ins.Title == "Low Win Rate" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAssignmentFrequencySkippedWhenNoRuns(t *testing.T) {
	out := insights.Generate(types.MonteCarloResult{NumRuns: 0}, nil)
	for _, ins := range out {
		assert.NotContains(t, ins.Title, "Assignment")
	}
}

func TestAssignmentFrequencyWarnsOnHighRatio(t *testing.T) {
	mc := types.MonteCarloResult{
		NumRuns: 2,
		Runs: []types.RunSummary{
			{FullCycles: 1, Assignments: 8},
			{FullCycles: 1, Assignments: 8},
		},
	}
	out := insights.Generate(mc, nil)

	found := false
	for _, ins := range out {
		if ins.Title == "Frequent Assignment" {
			found = true
		}
	}
	assert.True(t, found)
}
