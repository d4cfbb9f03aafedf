// Package execution turns a rule's Signal into the Event facts that the
// wheel reducer folds into the next PortfolioState. It is the only layer
// that knows how a signal becomes a trade; a future live-trading executor
// can implement the same two-method Executor interface without the rules
// or reducer changing at all.
package execution

import (
	"github.com/atlas-wheel/wheel-core/pkg/types"
)

// Executor resolves option expirations and turns signals into events. It is
// deliberately the narrowest interface that lets the backtest driver stay
// agnostic of how a trade is actually carried out.
type Executor interface {
	// ResolveExpiration checks whether the portfolio's open option has
	// reached its expiry day (market.Day >= expiry_day) and, if so, returns
	// the assignment/expiry events.
	ResolveExpiration(market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) []types.Event

	// Execute turns a non-HOLD signal into the events that carry it out.
	Execute(signal types.Signal, market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) []types.Event
}

// SimulatedExecutor fills every order at the strike and premium the signal
// carries (the rules' Black-Scholes price after the bid-ask haircut),
// charges the configured per-contract fee, and models no partial fills and
// no latency.
type SimulatedExecutor struct{}

// NewSimulatedExecutor returns the one executor the backtest driver needs.
func NewSimulatedExecutor() *SimulatedExecutor {
	return &SimulatedExecutor{}
}

func (SimulatedExecutor) ResolveExpiration(market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) []types.Event {
	opt := portfolio.OpenOption
	if opt == nil || market.Day < opt.ExpiryDay {
		return nil
	}

	var events []types.Event

	switch opt.Type {
	case types.OptionPut:
		assigned := market.Spot < opt.Strike
		if assigned {
			events = append(events, types.Event{
				Kind:  types.EventEthBought,
				Price: opt.Strike,
				Size:  cfg.Contracts,
			})
		}
		events = append(events, types.Event{Kind: types.EventOptionExpired, OptionType: types.OptionPut, Assigned: assigned})

	case types.OptionCall:
		assigned := market.Spot >= opt.Strike
		if assigned {
			entry := 0.0
			if portfolio.Position != nil {
				entry = portfolio.Position.EntryPrice
			}
			pl := (opt.Strike - entry) * cfg.Contracts
			events = append(events, types.Event{
				Kind:  types.EventEthSold,
				Price: opt.Strike,
				Size:  cfg.Contracts,
				PL:    pl,
			})
		}
		events = append(events, types.Event{Kind: types.EventOptionExpired, OptionType: types.OptionCall, Assigned: assigned})
	}

	return events
}

func (SimulatedExecutor) Execute(signal types.Signal, market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) []types.Event {
	switch signal.Kind {
	case types.SignalSellPut:
		gross := signal.Premium * cfg.Contracts
		net := gross - cfg.FeePerTrade*cfg.Contracts
		return []types.Event{
			{
				Kind:       types.EventOptionSold,
				OptionType: types.OptionPut,
				Strike:     signal.Strike,
				Delta:      signal.Delta,
				Premium:    signal.Premium,
				OpenDay:    market.Day,
				ExpiryDay:  market.Day + cfg.CycleLengthDays,
				Fees:       cfg.FeePerTrade * cfg.Contracts,
			},
			{Kind: types.EventPremiumCollected, Gross: gross, Net: net, Fees: cfg.FeePerTrade * cfg.Contracts},
		}

	case types.SignalSellCall:
		gross := signal.Premium * cfg.Contracts
		net := gross - cfg.FeePerTrade*cfg.Contracts
		return []types.Event{
			{
				Kind:       types.EventOptionSold,
				OptionType: types.OptionCall,
				Strike:     signal.Strike,
				Delta:      signal.Delta,
				Premium:    signal.Premium,
				OpenDay:    market.Day,
				ExpiryDay:  market.Day + cfg.CycleLengthDays,
				Fees:       cfg.FeePerTrade * cfg.Contracts,
			},
			{Kind: types.EventPremiumCollected, Gross: gross, Net: net, Fees: cfg.FeePerTrade * cfg.Contracts},
		}

	case types.SignalSkip:
		return []types.Event{{Kind: types.EventCycleSkipped}}

	case types.SignalClosePosition:
		if portfolio.Position == nil {
			return nil
		}
		entry := portfolio.Position.EntryPrice
		size := portfolio.Position.Size
		pl := (market.Spot - entry) * size
		return []types.Event{{Kind: types.EventPositionClosed, Price: market.Spot, Size: size, PL: pl}}

	case types.SignalRoll:
		opt := portfolio.OpenOption
		if opt == nil {
			return nil
		}
		oldStrike := opt.Strike
		originalPremium := opt.Premium
		return []types.Event{{
			Kind:            types.EventOptionRolled,
			OldStrike:       oldStrike,
			NewStrike:       signal.NewStrike,
			NewDelta:        signal.NewDelta,
			OriginalPremium: originalPremium,
			RollCost:        signal.RollCost,
			NewPremium:      signal.NewPremium,
			OpenDay:         market.Day,
			ExpiryDay:       market.Day + cfg.CycleLengthDays,
			Fees:            2 * cfg.FeePerTrade * cfg.Contracts,
		}}

	default: // HOLD
		return nil
	}
}
