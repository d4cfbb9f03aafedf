package types

import "fmt"

// AdaptiveCallsConfig enables delta-adaptive call selling and the
// low-premium skip rule.
type AdaptiveCallsConfig struct {
	MinDelta         float64
	MaxDelta         float64
	SkipThresholdPct float64
	MinStrikeAtCost  bool
}

// IVRVSpreadConfig enables the IV/realized-vol delta multiplier.
type IVRVSpreadConfig struct {
	LookbackDays  int
	MinMultiplier float64
	MaxMultiplier float64
}

// RollCallConfig enables mid-cycle call rolling.
type RollCallConfig struct {
	ITMThresholdPct   float64
	RequireNetCredit  bool
}

// StrategyConfig is the validated configuration for one simulation run.
// Unknown options have no representation here and are rejected by
// construction: NewStrategyConfig is the only supported entry point.
type StrategyConfig struct {
	TargetDelta     float64
	ImpliedVol      float64
	RiskFreeRate    float64
	CycleLengthDays int
	Contracts       float64
	BidAskSpreadPct float64
	FeePerTrade     float64

	AdaptiveCalls *AdaptiveCallsConfig
	IVRVSpread    *IVRVSpreadConfig
	RollCall      *RollCallConfig
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Reason)
}

// NewStrategyConfig validates raw inputs and constructs a StrategyConfig.
// The simulation functions assume their config argument has already passed
// through here.
func NewStrategyConfig(raw StrategyConfig) (*StrategyConfig, error) {
	cfg := raw

	if cfg.Contracts < 0 {
		return nil, &ConfigError{"contracts", "must be non-negative"}
	}
	if cfg.CycleLengthDays <= 0 {
		return nil, &ConfigError{"cycle_length_days", "must be positive"}
	}
	if cfg.BidAskSpreadPct < 0 || cfg.BidAskSpreadPct >= 1 {
		return nil, &ConfigError{"bid_ask_spread_pct", "must be in [0, 1)"}
	}
	if cfg.FeePerTrade < 0 {
		return nil, &ConfigError{"fee_per_trade", "must be non-negative"}
	}
	if cfg.TargetDelta <= 0 || cfg.TargetDelta > 0.5 {
		return nil, &ConfigError{"target_delta", "must be in (0, 0.5]"}
	}
	if cfg.ImpliedVol <= 0 {
		return nil, &ConfigError{"implied_vol", "must be positive"}
	}

	if cfg.AdaptiveCalls != nil {
		ac := cfg.AdaptiveCalls
		if ac.MinDelta > ac.MaxDelta {
			return nil, &ConfigError{"adaptive_calls.min_delta", "must not exceed max_delta"}
		}
		if ac.SkipThresholdPct < 0 {
			return nil, &ConfigError{"adaptive_calls.skip_threshold_pct", "must be non-negative"}
		}
	}

	if cfg.IVRVSpread != nil {
		iv := cfg.IVRVSpread
		if iv.LookbackDays <= 0 {
			return nil, &ConfigError{"iv_rv_spread.lookback_days", "must be positive"}
		}
		if iv.MinMultiplier > iv.MaxMultiplier {
			return nil, &ConfigError{"iv_rv_spread.min_multiplier", "must not exceed max_multiplier"}
		}
	}

	if cfg.RollCall != nil {
		if cfg.RollCall.ITMThresholdPct < 0 {
			return nil, &ConfigError{"roll_call.itm_threshold_pct", "must be non-negative"}
		}
	}

	return &cfg, nil
}

// PriceModel selects which stochastic model drives the price path.
type PriceModel string

const (
	ModelGBM         PriceModel = "gbm"
	ModelHeston      PriceModel = "heston"
	ModelJump        PriceModel = "jump"
	ModelHestonJump  PriceModel = "heston_jump"
)

// HestonParams parametrizes the Andersen-QE Heston variance process.
type HestonParams struct {
	V0        float64 // initial variance
	Kappa     float64 // mean-reversion speed
	Theta     float64 // long-run variance
	Xi        float64 // vol-of-vol
	Rho       float64 // spot/vol correlation
}

// JumpParams parametrizes the Merton compound-Poisson jump process.
type JumpParams struct {
	Lambda  float64 // jump intensity, per year
	MuJ     float64 // mean log-jump size
	SigmaJ  float64 // log-jump size std dev
}

// PriceParams is the input to the price path generator.
type PriceParams struct {
	StartPrice float64
	Days       int
	AnnualDrift float64
	AnnualVol   float64
	Seed        uint64
	Model       PriceModel
	Heston      *HestonParams
	Jump        *JumpParams
}

// MarketParamsError reports invalid price-generator inputs.
type MarketParamsError struct {
	Field  string
	Reason string
}

func (e *MarketParamsError) Error() string {
	return fmt.Sprintf("invalid market params field %q: %s", e.Field, e.Reason)
}

// Validate checks the invariants the price generator and Monte Carlo driver
// must enforce at their boundary (§7: invalid market inputs).
func (p PriceParams) Validate() error {
	if p.Days < 1 {
		return &MarketParamsError{"days", "must be at least 1"}
	}
	if p.StartPrice <= 0 {
		return &MarketParamsError{"start_price", "must be positive"}
	}
	switch p.Model {
	case ModelGBM, "":
	case ModelHeston, ModelHestonJump:
		if p.Heston == nil {
			return &MarketParamsError{"heston", "required for heston-family models"}
		}
	}
	switch p.Model {
	case ModelJump, ModelHestonJump:
		if p.Jump == nil {
			return &MarketParamsError{"jump", "required for jump-family models"}
		}
	}
	return nil
}

// PricePath is the generator's output.
type PricePath struct {
	Prices []float64
	IVPath []float64 // nil unless the model produces an instantaneous-vol path
}
