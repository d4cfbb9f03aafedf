package rules

import (
	"github.com/atlas-wheel/wheel-core/internal/pricing"
	"github.com/atlas-wheel/wheel-core/pkg/types"
	"github.com/atlas-wheel/wheel-core/pkg/utils"
)

// callCandidate is the strike/delta/premium a call-selling rule would open
// right now, including the min_strike_at_cost clamp. LowPremiumSkipRule and
// AdaptiveCallRule must agree on this so the skip decision reflects the same
// trade the call rule would actually place.
func callCandidate(market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) (strike, delta, premium float64) {
	entry := portfolio.Position.EntryPrice
	spot := market.Spot

	var baseDelta float64
	if cfg.AdaptiveCalls != nil {
		pnlPct := (spot - entry) / entry
		t := utils.Clamp((pnlPct+1)/2, 0, 1)
		ac := cfg.AdaptiveCalls
		baseDelta = ac.MinDelta + (ac.MaxDelta-ac.MinDelta)*t
	} else {
		baseDelta = cfg.TargetDelta
	}

	effDelta := baseDelta * ivRVMultiplier(market, cfg)
	if effDelta > 0.5 {
		effDelta = 0.5
	}

	t := cycleT(cfg)
	vol := effectiveVol(market, cfg)

	strike = pricing.FindStrikeForDelta(effDelta, spot, t, cfg.RiskFreeRate, vol, pricing.Call)
	delta = pricing.CallDelta(spot, strike, t, cfg.RiskFreeRate, vol)
	premium = pricing.CallPrice(spot, strike, t, cfg.RiskFreeRate, vol) * (1 - cfg.BidAskSpreadPct)

	if cfg.AdaptiveCalls != nil && cfg.AdaptiveCalls.MinStrikeAtCost && strike < entry {
		strike = entry
		delta = pricing.CallDelta(spot, strike, t, cfg.RiskFreeRate, vol)
		premium = pricing.CallPrice(spot, strike, t, cfg.RiskFreeRate, vol) * (1 - cfg.BidAskSpreadPct)
	}

	return strike, delta, premium
}

// LowPremiumSkipRule emits SKIP for a holding_eth cycle whose candidate
// call premium would not clear the configured threshold of the position's
// cost basis.
type LowPremiumSkipRule struct{}

func (LowPremiumSkipRule) Name() string        { return "LowPremiumSkipRule" }
func (LowPremiumSkipRule) Description() string { return "skip selling a call when the net premium is too small relative to position value" }
func (LowPremiumSkipRule) Phase() types.Phase   { return types.PhaseHoldingEth }
func (LowPremiumSkipRule) Priority() int        { return 50 }

func (LowPremiumSkipRule) Evaluate(market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) *types.Signal {
	if portfolio.Phase != types.PhaseHoldingEth || cfg.AdaptiveCalls == nil || portfolio.Position == nil {
		return nil
	}

	_, _, premium := callCandidate(market, portfolio, cfg)

	netPremium := premium*cfg.Contracts - cfg.FeePerTrade*cfg.Contracts
	positionValue := portfolio.Position.EntryPrice * cfg.Contracts

	if netPremium < cfg.AdaptiveCalls.SkipThresholdPct*positionValue {
		sig := types.Signal{
			Kind:   types.SignalSkip,
			Rule:   "LowPremiumSkipRule",
			Reason: "candidate call premium below skip threshold",
		}
		return &sig
	}
	return nil
}

// BasePutRule sells a cash-secured put at the configured target delta.
type BasePutRule struct{}

func (BasePutRule) Name() string        { return "BasePutRule" }
func (BasePutRule) Description() string { return "sell a put at the target absolute delta" }
func (BasePutRule) Phase() types.Phase  { return types.PhaseIdleCash }
func (BasePutRule) Priority() int       { return 100 }

func (BasePutRule) Evaluate(market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) *types.Signal {
	if portfolio.Phase != types.PhaseIdleCash {
		return nil
	}

	effDelta := cfg.TargetDelta * ivRVMultiplier(market, cfg)
	if effDelta > 0.5 {
		effDelta = 0.5
	}

	t := cycleT(cfg)
	vol := effectiveVol(market, cfg)
	spot := market.Spot

	strike := pricing.FindStrikeForDelta(effDelta, spot, t, cfg.RiskFreeRate, vol, pricing.Put)
	delta := pricing.PutDelta(spot, strike, t, cfg.RiskFreeRate, vol)
	premium := pricing.PutPrice(spot, strike, t, cfg.RiskFreeRate, vol) * (1 - cfg.BidAskSpreadPct)

	sig := types.Signal{
		Kind:    types.SignalSellPut,
		Rule:    "BasePutRule",
		Reason:  "target-delta put",
		Strike:  strike,
		Delta:   delta,
		Premium: premium,
	}
	return &sig
}

// AdaptiveCallRule sells a covered call, widening the target delta with
// unrealized gain when adaptive_calls is configured.
type AdaptiveCallRule struct{}

func (AdaptiveCallRule) Name() string        { return "AdaptiveCallRule" }
func (AdaptiveCallRule) Description() string { return "sell a covered call, delta adapted to unrealized P/L when configured" }
func (AdaptiveCallRule) Phase() types.Phase  { return types.PhaseHoldingEth }
func (AdaptiveCallRule) Priority() int       { return 100 }

func (AdaptiveCallRule) Evaluate(market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) *types.Signal {
	if portfolio.Phase != types.PhaseHoldingEth || portfolio.Position == nil {
		return nil
	}

	strike, delta, premium := callCandidate(market, portfolio, cfg)

	sig := types.Signal{
		Kind:    types.SignalSellCall,
		Rule:    "AdaptiveCallRule",
		Reason:  "covered call",
		Strike:  strike,
		Delta:   delta,
		Premium: premium,
	}
	return &sig
}

// RollCallRule closes a deep-ITM short call and opens a fresh one when the
// spot has moved far enough past the strike, active only when roll_call is
// configured.
type RollCallRule struct{}

func (RollCallRule) Name() string        { return "RollCallRule" }
func (RollCallRule) Description() string { return "roll a deep-ITM short call to a fresh target-delta strike" }
func (RollCallRule) Phase() types.Phase  { return types.PhaseShortCall }
func (RollCallRule) Priority() int       { return 30 }

func (RollCallRule) Evaluate(market types.MarketSnapshot, portfolio *types.PortfolioState, cfg *types.StrategyConfig) *types.Signal {
	if portfolio.Phase != types.PhaseShortCall || cfg.RollCall == nil || portfolio.OpenOption == nil {
		return nil
	}

	opt := portfolio.OpenOption
	spot := market.Spot
	if spot < opt.Strike*(1+cfg.RollCall.ITMThresholdPct) {
		return nil
	}

	t := cycleT(cfg)
	vol := effectiveVol(market, cfg)
	effDelta := cfg.TargetDelta * ivRVMultiplier(market, cfg)
	if effDelta > 0.5 {
		effDelta = 0.5
	}

	newStrike := pricing.FindStrikeForDelta(effDelta, spot, t, cfg.RiskFreeRate, vol, pricing.Call)
	newDelta := pricing.CallDelta(spot, newStrike, t, cfg.RiskFreeRate, vol)
	newPremium := pricing.CallPrice(spot, newStrike, t, cfg.RiskFreeRate, vol) * (1 - cfg.BidAskSpreadPct)

	rollCost := pricing.CallPrice(spot, opt.Strike, t, cfg.RiskFreeRate, vol)

	credit := newPremium - rollCost
	if cfg.RollCall.RequireNetCredit && credit <= 0 {
		return nil
	}

	sig := types.Signal{
		Kind:       types.SignalRoll,
		Rule:       "RollCallRule",
		Reason:     "deep-ITM roll",
		NewStrike:  newStrike,
		NewDelta:   newDelta,
		RollCost:   rollCost,
		NewPremium: newPremium,
		Credit:     credit,
	}
	return &sig
}

// DefaultRules returns the standard priority-ordered rule set. RollCallRule
// is always present here but self-gates to nil whenever cfg.RollCall is
// absent, so it only ever produces a signal when the caller's config wires
// a roll_call block; callers composing a different set may ignore this
// helper entirely.
func DefaultRules() []Rule {
	return []Rule{
		LowPremiumSkipRule{},
		BasePutRule{},
		AdaptiveCallRule{},
		RollCallRule{},
	}
}
