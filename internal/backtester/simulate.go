// Package backtester runs one deterministic simulation of the wheel
// strategy over a price path: the pipeline that turns a day's market
// observation into rule evaluation, execution, state reduction, and a
// logged daily snapshot.
package backtester

import (
	"math"

	"github.com/atlas-wheel/wheel-core/internal/execution"
	"github.com/atlas-wheel/wheel-core/internal/rules"
	"github.com/atlas-wheel/wheel-core/internal/wheel"
	"github.com/atlas-wheel/wheel-core/pkg/types"
	"github.com/atlas-wheel/wheel-core/pkg/utils"
)

// Result is the full auditable output of one simulation run.
type Result struct {
	SignalLog   []types.SignalLogEntry
	DailyStates []types.DailyState
	Summary     types.PortfolioSummary
}

// Simulate runs the wheel strategy day-by-day over prices (with an
// optional parallel instantaneous-vol path), evaluating rules in priority
// order and executing signals through a SimulatedExecutor. It reads
// randomness nowhere: given identical inputs it returns byte-identical
// output on any conforming platform.
func Simulate(prices []float64, ivPath []float64, ruleSet []rules.Rule, cfg *types.StrategyConfig) Result {
	exec := execution.NewSimulatedExecutor()

	portfolio := wheel.NewPortfolio()

	var signalLog []types.SignalLogEntry
	var dailyStates []types.DailyState

	for day := 0; day < len(prices); day++ {
		spot := prices[day]

		var realizedVol *float64
		if cfg.IVRVSpread != nil {
			if rv, ok := computeRealizedVol(prices, day, cfg.IVRVSpread.LookbackDays); ok {
				realizedVol = &rv
			}
		}

		var iv *float64
		if ivPath != nil {
			v := ivPath[day]
			iv = &v
		}

		market := types.MarketSnapshot{Day: day, Spot: spot, IV: iv, RealizedVol: realizedVol}

		decisionPoint := portfolio.OpenOption == nil || day >= portfolio.OpenOption.ExpiryDay

		rollTrigger := false
		if !decisionPoint && cfg.RollCall != nil && portfolio.Phase == types.PhaseShortCall && portfolio.OpenOption != nil {
			rollTrigger = spot >= portfolio.OpenOption.Strike*(1+cfg.RollCall.ITMThresholdPct)
		}

		if decisionPoint || rollTrigger {
			portfolioBefore := wheel.Snapshot(portfolio)

			if portfolio.OpenOption != nil && day >= portfolio.OpenOption.ExpiryDay {
				expiryEvents := exec.ResolveExpiration(market, portfolio, cfg)
				if len(expiryEvents) > 0 {
					portfolio = wheel.ApplyEvents(portfolio, expiryEvents)
					signalLog = append(signalLog, types.SignalLogEntry{
						Day:             day,
						Market:          market,
						PortfolioBefore: portfolioBefore,
						Signal:          types.HoldSignal(),
						Events:          expiryEvents,
						PortfolioAfter:  wheel.Snapshot(portfolio),
					})
				}
			}

			portfolioBeforeSignal := wheel.Snapshot(portfolio)
			signal := rules.EvaluateRules(ruleSet, market, portfolio, cfg)

			if signal.Kind != types.SignalHold {
				execEvents := exec.Execute(*signal, market, portfolio, cfg)
				if len(execEvents) > 0 {
					portfolio = wheel.ApplyEvents(portfolio, execEvents)
				}
				signalLog = append(signalLog, types.SignalLogEntry{
					Day:             day,
					Market:          market,
					PortfolioBefore: portfolioBeforeSignal,
					Signal:          *signal,
					Events:          execEvents,
					PortfolioAfter:  wheel.Snapshot(portfolio),
				})
			}
		}

		var unrealizedPL float64
		if portfolio.Position != nil {
			unrealizedPL = (spot - portfolio.Position.EntryPrice) * cfg.Contracts
		}

		dailyStates = append(dailyStates, types.DailyState{
			Day:          day,
			Price:        spot,
			Phase:        portfolio.Phase,
			CumulativePL: portfolio.RealizedPL,
			UnrealizedPL: unrealizedPL,
			HoldingEth:   portfolio.Position != nil,
		})
	}

	return Result{
		SignalLog:   signalLog,
		DailyStates: dailyStates,
		Summary:     types.SummaryOf(portfolio),
	}
}

// computeRealizedVol estimates annualized realized volatility from the
// lookback most recent daily log returns ending at day. It returns false
// when fewer than lookback returns are available (day < lookback).
func computeRealizedVol(prices []float64, day, lookback int) (float64, bool) {
	if day < lookback {
		return 0, false
	}

	returns := make([]float64, lookback)
	for i := 0; i < lookback; i++ {
		idx := day - lookback + 1 + i
		returns[i] = math.Log(prices[idx] / prices[idx-1])
	}

	return utils.StdDev(returns) * math.Sqrt(365), true
}
