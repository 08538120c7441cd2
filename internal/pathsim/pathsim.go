// Package pathsim advances an asset price along a geometric Brownian motion at minute, hour
// and day resolution.
package pathsim

import (
	"fmt"
	"math"

	"mcpricer/internal/model/enum"
	"mcpricer/internal/rng"
)

const (
	// MinFactor and MaxFactor bound the multiplicative move of a single step.
	MinFactor = 0.2
	MaxFactor = 5.0
)

type resolutionScale struct {
	scalar      float64
	stepsPerDay float64
}

// scales brings the annualized drift and volatility down to one step. The scalars are
// sqrt(1/(252*6.5)) and sqrt(1/(252*6.5*60)) rounded.
var scales = [...]resolutionScale{
	enum.ResolutionMinute: {scalar: 0.0032, stepsPerDay: 6.5 * 60},
	enum.ResolutionHour:   {scalar: 0.0248, stepsPerDay: 6.5},
	enum.ResolutionDay:    {scalar: 1, stepsPerDay: 1},
}

func scaleOf(res enum.Resolution) resolutionScale {
	if !res.IsAvailable() {
		panic(fmt.Sprintf("pathsim: unknown resolution %d", res))
	}
	return scales[res]
}

// Factor returns the clamped multiplicative move for one step driven by variate.
func Factor(drift, volatility, deltaT float64, res enum.Resolution, variate float64) float64 {
	sc := scaleOf(res)
	mu := drift * sc.scalar
	sigma := volatility * sc.scalar
	dt := deltaT / sc.stepsPerDay

	factor := math.Exp((mu-sigma*sigma/2)*dt + sigma*math.Sqrt(dt)*variate)
	return math.Min(math.Max(factor, MinFactor), MaxFactor)
}

// AdvancePrice applies one stochastic step at the given resolution.
func AdvancePrice(src rng.Source, price, drift, volatility, deltaT float64, res enum.Resolution) float64 {
	return price * Factor(drift, volatility, deltaT, res, src.NextNormal())
}

// SimulateTradingDay walks one trading day: every hour block runs minutesPerHour minute
// steps followed by one hour step, and the day closes with one day step.
func SimulateTradingDay(src rng.Source, price float64, hours, minutesPerHour int, drift, volatility, deltaT float64) float64 {
	for range hours {
		for range minutesPerHour {
			price = AdvancePrice(src, price, drift, volatility, deltaT, enum.ResolutionMinute)
		}
		price = AdvancePrice(src, price, drift, volatility, deltaT, enum.ResolutionHour)
	}
	return AdvancePrice(src, price, drift, volatility, deltaT, enum.ResolutionDay)
}
