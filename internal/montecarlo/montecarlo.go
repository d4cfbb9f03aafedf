// Package montecarlo runs the wheel strategy across many independently
// seeded price paths and aggregates the results into risk-adjusted,
// regime-conditional statistics. Per-seed work is embarrassingly parallel;
// aggregation is a deterministic reduction over the full result set so the
// final MonteCarloResult never depends on goroutine scheduling.
package montecarlo

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/atlas-wheel/wheel-core/internal/backtester"
	"github.com/atlas-wheel/wheel-core/internal/priceseries"
	"github.com/atlas-wheel/wheel-core/internal/rules"
	"github.com/atlas-wheel/wheel-core/pkg/types"
	"github.com/atlas-wheel/wheel-core/pkg/utils"
)

// Metrics is an optional Prometheus instrumentation hook for the driver; a
// nil *Metrics disables instrumentation entirely.
type Metrics struct {
	RunsTotal  prometheus.Counter
	RunSeconds prometheus.Histogram
}

// NewMetrics registers the driver's counters and histograms against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wheelcore_montecarlo_runs_total",
			Help: "Number of per-seed simulation runs completed.",
		}),
		RunSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wheelcore_montecarlo_run_seconds",
			Help:    "Wall-clock duration of one per-seed simulation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.RunsTotal, m.RunSeconds)
	return m
}

// RunMonteCarlo generates numRuns independent price paths from seeds
// 1..=numRuns, simulates each, and aggregates the per-run summaries. The
// per-seed loop may run on multiple goroutines; the aggregate statistics
// are computed as an order-independent reduction over the resulting set so
// the output is identical to a serial run over the same seeds.
func RunMonteCarlo(logger *zap.Logger, metrics *Metrics, marketParams types.PriceParams, cfg *types.StrategyConfig, ruleSet []rules.Rule, numRuns int) (types.MonteCarloResult, error) {
	if err := marketParams.Validate(); err != nil {
		return types.MonteCarloResult{}, err
	}

	// run_id exists purely for log correlation on the summary line below;
	// it never enters the returned result, so it cannot affect determinism.
	runID := uuid.NewString()

	pool := newSeedPool(numRuns)
	raw := pool.run(numRuns, func(i int) interface{} {
		seed := uint64(i + 1)
		start := time.Now()
		summary := runOneSeed(marketParams, cfg, ruleSet, seed)
		if metrics != nil {
			metrics.RunsTotal.Inc()
			metrics.RunSeconds.Observe(time.Since(start).Seconds())
		}
		return summary
	})

	runs := make([]types.RunSummary, numRuns)
	for i, r := range raw {
		runs[i] = r.(types.RunSummary)
	}

	result := aggregate(runs)

	if logger != nil {
		logger.Info("monte carlo run complete",
			zap.String("run_id", runID),
			zap.Int("num_runs", numRuns),
			zap.Float64("mean_apr", result.MeanAPR),
			zap.Float64("winner_rate", result.WinnerRate),
		)
	}

	return result, nil
}

// RerunSingle regenerates the price path for one seed and returns it
// alongside the full simulation result, for drilling into a Monte Carlo
// run's outlier or representative seed.
func RerunSingle(marketParams types.PriceParams, cfg *types.StrategyConfig, ruleSet []rules.Rule, seed uint64) (*types.PricePath, backtester.Result, error) {
	params := marketParams
	params.Seed = seed
	path, err := priceseries.Generate(params)
	if err != nil {
		return nil, backtester.Result{}, err
	}
	result := backtester.Simulate(path.Prices, path.IVPath, ruleSet, cfg)
	return path, result, nil
}

func runOneSeed(marketParams types.PriceParams, cfg *types.StrategyConfig, ruleSet []rules.Rule, seed uint64) types.RunSummary {
	params := marketParams
	params.Seed = seed

	// RunMonteCarlo validates marketParams once before any seed runs; the
	// seed field itself carries no validity constraint, so this can't fail.
	path, _ := priceseries.Generate(params)

	result := backtester.Simulate(path.Prices, path.IVPath, ruleSet, cfg)
	return summarizeRun(path.Prices, result, cfg, seed)
}

func summarizeRun(prices []float64, result backtester.Result, cfg *types.StrategyConfig, seed uint64) types.RunSummary {
	days := len(prices)
	last := result.DailyStates[days-1]

	capitalAtRisk := prices[0] * cfg.Contracts
	yearsElapsed := float64(days) / 365.0

	totalPL := last.CumulativePL + last.UnrealizedPL
	apr := aprOf(last.CumulativePL, capitalAtRisk, yearsElapsed)

	totalPLSeries := make([]float64, days)
	for i, d := range result.DailyStates {
		totalPLSeries[i] = d.CumulativePL + d.UnrealizedPL
	}
	maxDrawdown := utils.MaxDrawdown(totalPLSeries)

	fullCycles := 0
	for _, entry := range result.SignalLog {
		for _, ev := range entry.Events {
			if ev.Kind == types.EventOptionExpired && ev.OptionType == types.OptionCall && ev.Assigned {
				fullCycles++
			}
		}
	}

	benchmarkPL := (prices[days-1] - prices[0]) * cfg.Contracts
	benchmarkAPR := aprOf(benchmarkPL, capitalAtRisk, yearsElapsed)
	benchmarkSeries := make([]float64, days)
	for i, p := range prices {
		benchmarkSeries[i] = (p - prices[0]) * cfg.Contracts
	}
	benchmarkMaxDD := utils.MaxDrawdown(benchmarkSeries)

	rfDaily := cfg.RiskFreeRate / 365.0

	strategyReturns := make([]float64, 0, days-1)
	for i := 1; i < days; i++ {
		strategyReturns = append(strategyReturns, (totalPLSeries[i]-totalPLSeries[i-1])/capitalAtRisk)
	}
	sharpe := sharpeOf(strategyReturns, rfDaily)
	sortino := sortinoOf(strategyReturns, rfDaily)

	benchmarkReturns := make([]float64, 0, days-1)
	for i := 1; i < days; i++ {
		benchmarkReturns = append(benchmarkReturns, (prices[i]-prices[i-1])/prices[0])
	}
	benchmarkSharpe := sharpeOf(benchmarkReturns, rfDaily)
	benchmarkSortino := sortinoOf(benchmarkReturns, rfDaily)

	underlyingReturn := (prices[days-1] - prices[0]) / prices[0]
	annualizedReturn := underlyingReturn * 365.0 / math.Max(float64(days-1), 1)

	return types.RunSummary{
		Seed: seed,

		TotalPL:     totalPL,
		APR:         apr,
		MaxDrawdown: maxDrawdown,

		FullCycles:       fullCycles,
		Assignments:      result.Summary.TotalAssignments,
		SkippedCycles:    result.Summary.TotalSkippedCycles,
		PremiumCollected: result.Summary.TotalPremiumCollected,

		BenchmarkPL:    benchmarkPL,
		BenchmarkAPR:   benchmarkAPR,
		BenchmarkMaxDD: benchmarkMaxDD,

		Sharpe:           sharpe,
		Sortino:          sortino,
		BenchmarkSharpe:  benchmarkSharpe,
		BenchmarkSortino: benchmarkSortino,

		UnderlyingReturn: underlyingReturn,
		Regime:           classifyRegime(annualizedReturn),
	}
}

func aprOf(pl, capitalAtRisk, yearsElapsed float64) float64 {
	if capitalAtRisk == 0 || yearsElapsed == 0 {
		return 0
	}
	return (pl / capitalAtRisk) / yearsElapsed * 100
}

func sharpeOf(returns []float64, rf float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	std := utils.StdDev(returns)
	if std == 0 {
		return 0
	}
	return (utils.Mean(returns) - rf) / std * math.Sqrt(365)
}

func sortinoOf(returns []float64, rf float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	downside := utils.DownsideStdDev(returns, rf)
	if downside == 0 {
		return 0
	}
	return (utils.Mean(returns) - rf) / downside * math.Sqrt(365)
}

func classifyRegime(annualizedReturn float64) types.Regime {
	if annualizedReturn > 0.20 {
		return types.RegimeBull
	}
	if annualizedReturn < -0.20 {
		return types.RegimeBear
	}
	return types.RegimeSideways
}

func aggregate(runs []types.RunSummary) types.MonteCarloResult {
	n := len(runs)

	aprs := make([]float64, n)
	pls := make([]float64, n)
	drawdowns := make([]float64, n)
	benchmarkAPRs := make([]float64, n)
	benchmarkPLs := make([]float64, n)
	benchmarkMaxDDs := make([]float64, n)
	sharpes := make([]float64, n)
	sortinos := make([]float64, n)
	benchmarkSharpes := make([]float64, n)
	benchmarkSortinos := make([]float64, n)

	wins := 0
	for i, r := range runs {
		aprs[i] = r.APR
		pls[i] = r.TotalPL
		drawdowns[i] = r.MaxDrawdown
		benchmarkAPRs[i] = r.BenchmarkAPR
		benchmarkPLs[i] = r.BenchmarkPL
		benchmarkMaxDDs[i] = r.BenchmarkMaxDD
		sharpes[i] = r.Sharpe
		sortinos[i] = r.Sortino
		benchmarkSharpes[i] = r.BenchmarkSharpe
		benchmarkSortinos[i] = r.BenchmarkSortino
		if r.TotalPL > 0 {
			wins++
		}
	}

	winnerRate := 0.0
	if n > 0 {
		winnerRate = float64(wins) / float64(n)
	}

	sortedAPR := utils.SortedCopy(aprs)

	return types.MonteCarloResult{
		NumRuns: n,

		WinnerRate: winnerRate,

		MeanAPR:   utils.Mean(aprs),
		MedianAPR: utils.Percentile(sortedAPR, 50),
		P5APR:     utils.Percentile(sortedAPR, 5),
		P25APR:    utils.Percentile(sortedAPR, 25),
		P75APR:    utils.Percentile(sortedAPR, 75),
		P95APR:    utils.Percentile(sortedAPR, 95),

		MeanPL:   utils.Mean(pls),
		MedianPL: utils.Percentile(utils.SortedCopy(pls), 50),

		MeanMaxDrawdown: utils.Mean(drawdowns),

		MeanBenchmarkAPR:   utils.Mean(benchmarkAPRs),
		MedianBenchmarkAPR: utils.Percentile(utils.SortedCopy(benchmarkAPRs), 50),
		MeanBenchmarkPL:    utils.Mean(benchmarkPLs),
		MeanBenchmarkMaxDD: utils.Mean(benchmarkMaxDDs),

		MeanSharpe:           utils.Mean(sharpes),
		MeanSortino:          utils.Mean(sortinos),
		MeanBenchmarkSharpe:  utils.Mean(benchmarkSharpes),
		MeanBenchmarkSortino: utils.Mean(benchmarkSortinos),

		RegimeBreakdown: regimeBreakdown(runs),

		Runs: runs,
	}
}

func regimeBreakdown(runs []types.RunSummary) []types.RegimeStats {
	breakdown := make([]types.RegimeStats, 0, len(types.AllRegimes))

	for _, regime := range types.AllRegimes {
		var aprs, benchmarkAPRs, alphas, sharpeVals, drawdowns []float64
		wins := 0
		count := 0

		for _, r := range runs {
			if r.Regime != regime {
				continue
			}
			count++
			aprs = append(aprs, r.APR)
			benchmarkAPRs = append(benchmarkAPRs, r.BenchmarkAPR)
			alphas = append(alphas, r.APR-r.BenchmarkAPR)
			sharpeVals = append(sharpeVals, r.Sharpe)
			drawdowns = append(drawdowns, r.MaxDrawdown)
			if r.TotalPL > 0 {
				wins++
			}
		}

		winRate := 0.0
		if count > 0 {
			winRate = float64(wins) / float64(count)
		}

		breakdown = append(breakdown, types.RegimeStats{
			Regime:           regime,
			Count:            count,
			MeanAPR:          utils.Mean(aprs),
			MeanBenchmarkAPR: utils.Mean(benchmarkAPRs),
			MeanAlpha:        utils.Mean(alphas),
			MeanSharpe:       utils.Mean(sharpeVals),
			WinRate:          winRate,
			MeanMaxDrawdown:  utils.Mean(drawdowns),
		})
	}

	return breakdown
}
