package pricing

import "math"

// OptionKind selects which side of the chain the solver searches.
type OptionKind int

const (
	Put OptionKind = iota
	Call
)

const (
	solverMaxIterations = 100
	solverBracketWidth  = 0.01
)

// FindStrikeForDelta performs a bisection search for the strike whose
// absolute Black-Scholes delta equals targetAbsDelta, exploiting that put
// |delta| increases in strike and call |delta| decreases in strike. The
// bracket is [0.5*spot, spot] for puts and [spot, 1.5*spot] for calls,
// matching the moneyness range a cash-secured wheel ever trades. The search
// stops once the bracket narrows below 0.01 or after 100 iterations,
// returning the midpoint.
func FindStrikeForDelta(targetAbsDelta, spot, t, r, sigma float64, kind OptionKind) float64 {
	var lo, hi float64
	if kind == Put {
		lo, hi = 0.5*spot, spot
	} else {
		lo, hi = spot, 1.5*spot
	}

	absDeltaAt := func(k float64) float64 {
		if kind == Put {
			return math.Abs(PutDelta(spot, k, t, r, sigma))
		}
		return math.Abs(CallDelta(spot, k, t, r, sigma))
	}

	for i := 0; i < solverMaxIterations && (hi-lo) >= solverBracketWidth; i++ {
		mid := (lo + hi) / 2
		d := absDeltaAt(mid)

		// Put |delta| increases in strike, call |delta| decreases in
		// strike, so in both cases needHigherStrike is the signal to
		// discard the lower half of the bracket.
		var needHigherStrike bool
		if kind == Put {
			needHigherStrike = d < targetAbsDelta
		} else {
			needHigherStrike = d > targetAbsDelta
		}

		if needHigherStrike {
			lo = mid
		} else {
			hi = mid
		}
	}

	return (lo + hi) / 2
}
