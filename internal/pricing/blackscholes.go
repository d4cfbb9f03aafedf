// Package pricing implements Black-Scholes European option pricing and the
// inverse-delta strike solver used by the rule set to size short options.
package pricing

import "math"

// normCDF approximates the standard normal CDF via the Abramowitz/Stegun
// rational approximation of erf (7.1.26), accurate to about 1e-7 absolute error.
func normCDF(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	ax := math.Abs(x) / math.Sqrt2
	t := 1.0 / (1.0 + p*ax)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-ax*ax)
	return 0.5 * (1.0 + sign*y)
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func d1d2(spot, strike, t, r, sigma float64) (d1, d2 float64) {
	d1 = (math.Log(spot/strike) + (r+sigma*sigma/2)*t) / (sigma * math.Sqrt(t))
	d2 = d1 - sigma*math.Sqrt(t)
	return
}

// CallPrice returns the Black-Scholes price of a European call.
func CallPrice(spot, strike, t, r, sigma float64) float64 {
	d1, d2 := d1d2(spot, strike, t, r, sigma)
	return spot*normCDF(d1) - strike*math.Exp(-r*t)*normCDF(d2)
}

// PutPrice returns the Black-Scholes price of a European put.
func PutPrice(spot, strike, t, r, sigma float64) float64 {
	d1, d2 := d1d2(spot, strike, t, r, sigma)
	return strike*math.Exp(-r*t)*normCDF(-d2) - spot*normCDF(-d1)
}

// CallDelta returns the Black-Scholes delta of a European call, in (0, 1).
func CallDelta(spot, strike, t, r, sigma float64) float64 {
	d1, _ := d1d2(spot, strike, t, r, sigma)
	return normCDF(d1)
}

// PutDelta returns the Black-Scholes delta of a European put, in (-1, 0).
func PutDelta(spot, strike, t, r, sigma float64) float64 {
	d1, _ := d1d2(spot, strike, t, r, sigma)
	return normCDF(d1) - 1
}

// Vega returns the Black-Scholes vega, shared by both option types.
func Vega(spot, strike, t, r, sigma float64) float64 {
	d1, _ := d1d2(spot, strike, t, r, sigma)
	return spot * normPDF(d1) * math.Sqrt(t)
}
