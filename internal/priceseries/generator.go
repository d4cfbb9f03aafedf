// Package priceseries generates the daily price (and, for stochastic-vol
// models, instantaneous-vol) path that drives one simulation run. All four
// models share a single deterministic prng.Stream so that a fixed seed
// reproduces an identical path on any conforming platform; changing a
// model's draw order is a breaking change.
package priceseries

import (
	"math"

	"github.com/atlas-wheel/wheel-core/internal/prng"
	"github.com/atlas-wheel/wheel-core/pkg/types"
)

const dayFraction = 1.0 / 365.0

// Generate produces a price path (and, for Heston-family models, an
// instantaneous-vol path) under the model named in params.
func Generate(params types.PriceParams) (*types.PricePath, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	stream := prng.New(params.Seed)

	switch params.Model {
	case types.ModelHeston:
		return generateHeston(params, stream, nil), nil
	case types.ModelJump:
		return generateJump(params, stream), nil
	case types.ModelHestonJump:
		return generateHeston(params, stream, params.Jump), nil
	default:
		return generateGBM(params, stream), nil
	}
}

func generateGBM(p types.PriceParams, s *prng.Stream) *types.PricePath {
	prices := make([]float64, p.Days)
	prices[0] = p.StartPrice

	mu, sigma := p.AnnualDrift, p.AnnualVol
	dt := dayFraction

	for i := 1; i < p.Days; i++ {
		z := s.Normal()
		drift := (mu - sigma*sigma/2) * dt
		diffusion := sigma * math.Sqrt(dt) * z
		prices[i] = prices[i-1] * math.Exp(drift+diffusion)
	}

	return &types.PricePath{Prices: prices}
}

// generateHeston implements the Andersen quadratic-exponential (QE) scheme
// for the variance process, optionally compounding a Merton jump on the
// price leg when jump is non-nil. Draw order per step: the QE random(s) for
// the variance update, then the two correlated price normals, then — only
// for the Heston+Jump variant — the jump test uniform and, if triggered,
// the jump normal.
func generateHeston(p types.PriceParams, s *prng.Stream, jump *types.JumpParams) *types.PricePath {
	prices := make([]float64, p.Days)
	ivPath := make([]float64, p.Days)
	prices[0] = p.StartPrice

	h := p.Heston
	v := h.V0
	ivPath[0] = math.Sqrt(math.Max(v, 0))

	dt := dayFraction
	expKappaDt := math.Exp(-h.Kappa * dt)

	var jumpComp float64
	if jump != nil {
		jumpComp = jump.Lambda * (math.Exp(jump.MuJ+jump.SigmaJ*jump.SigmaJ/2) - 1)
	}

	for i := 1; i < p.Days; i++ {
		m := h.Theta + (v-h.Theta)*expKappaDt
		s2 := (v*h.Xi*h.Xi*expKappaDt/h.Kappa)*(1-expKappaDt) +
			(h.Theta*h.Xi*h.Xi/(2*h.Kappa))*(1-expKappaDt)*(1-expKappaDt)

		var psi float64
		if m*m > 0 {
			psi = s2 / (m * m)
		}

		var vNext float64
		if psi <= 1.5 {
			invPsi := 2 / psi
			b2 := invPsi - 1 + math.Sqrt(invPsi*(invPsi-1))
			a := m / (1 + b2)
			zv := s.Normal()
			bv := math.Sqrt(b2)
			vNext = a * (bv + zv) * (bv + zv)
		} else {
			pProb := (psi - 1) / (psi + 1)
			beta := (1 - pProb) / m
			u := s.Uniform()
			if u <= pProb {
				vNext = 0
			} else {
				vNext = math.Log((1-pProb)/(1-u)) / beta
			}
		}
		if vNext < 0 {
			vNext = 0
		}

		z1 := s.Normal()
		z2 := s.Normal()
		zS := h.Rho*z1 + math.Sqrt(1-h.Rho*h.Rho)*z2

		sigmaBar := math.Sqrt(math.Max((v+vNext)/2, 0))
		logReturn := (p.AnnualDrift-0.5*sigmaBar*sigmaBar)*dt + sigmaBar*math.Sqrt(dt)*zS

		if jump != nil {
			u := s.Uniform()
			logReturn -= jumpComp * dt
			if u < jump.Lambda*dt {
				zJ := s.Normal()
				logReturn += jump.MuJ + jump.SigmaJ*zJ
			}
		}

		prices[i] = prices[i-1] * math.Exp(logReturn)
		v = vNext
		ivPath[i] = math.Sqrt(math.Max(v, 0))
	}

	return &types.PricePath{Prices: prices, IVPath: ivPath}
}

// generateJump implements the Merton jump-diffusion model with a
// jump-compensated drift. Draw order per step: the diffusion normal, the
// jump test uniform, then — only when the test fires — the jump normal.
func generateJump(p types.PriceParams, s *prng.Stream) *types.PricePath {
	prices := make([]float64, p.Days)
	prices[0] = p.StartPrice

	j := p.Jump
	dt := dayFraction
	jumpComp := j.Lambda * (math.Exp(j.MuJ+j.SigmaJ*j.SigmaJ/2) - 1)

	for i := 1; i < p.Days; i++ {
		z := s.Normal()
		drift := (p.AnnualDrift - p.AnnualVol*p.AnnualVol/2 - jumpComp) * dt
		diffusion := p.AnnualVol * math.Sqrt(dt) * z

		logReturn := drift + diffusion

		u := s.Uniform()
		if u < j.Lambda*dt {
			zJ := s.Normal()
			logReturn += j.MuJ + j.SigmaJ*zJ
		}

		prices[i] = prices[i-1] * math.Exp(logReturn)
	}

	return &types.PricePath{Prices: prices}
}
