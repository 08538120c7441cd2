package model

import (
	"fmt"
	"math"

	"mcpricer/internal/model/enum"
	"mcpricer/pkg/exception"
)

// TradingDaysPerYear is the day count behind the default DeltaT.
const TradingDaysPerYear = 252

// Params is the validated input of one pricing run. It is passed by value and never mutated.
type Params struct {
	StartPrice float64
	Drift      float64
	Volatility float64
	// DeltaT is one trading day expressed as a fraction of a year.
	DeltaT     float64
	Days       int
	Hours      int
	Minutes    int
	Strike     float64
	Side       enum.Side
	Iterations int
}

// Validate reports the first configuration error found.
func (p Params) Validate() error {
	if !(p.StartPrice > 0) || math.IsInf(p.StartPrice, 0) {
		return fmt.Errorf("%w, got %v", exception.ErrInvalidStartPrice, p.StartPrice)
	}
	if math.IsNaN(p.Drift) || math.IsInf(p.Drift, 0) {
		return fmt.Errorf("simulation: drift must be finite, got %v", p.Drift)
	}
	if !(p.Volatility >= 0) || math.IsInf(p.Volatility, 0) {
		return fmt.Errorf("%w, got %v", exception.ErrInvalidVolatility, p.Volatility)
	}
	if !(p.DeltaT > 0) || math.IsInf(p.DeltaT, 0) {
		return fmt.Errorf("%w, got %v", exception.ErrInvalidDeltaT, p.DeltaT)
	}
	if p.Days <= 0 {
		return fmt.Errorf("%w, got %d", exception.ErrInvalidDays, p.Days)
	}
	if p.Hours < 0 || p.Minutes < 0 {
		return fmt.Errorf("%w, got hours %d minutes %d", exception.ErrInvalidIntraday, p.Hours, p.Minutes)
	}
	if math.IsNaN(p.Strike) || math.IsInf(p.Strike, 0) {
		return fmt.Errorf("%w, got %v", exception.ErrInvalidStrike, p.Strike)
	}
	if !p.Side.IsAvailable() {
		return fmt.Errorf("%w, got %d", exception.ErrInvalidSide, p.Side)
	}
	if p.Iterations <= 0 {
		return fmt.Errorf("%w, got %d", exception.ErrInvalidIterations, p.Iterations)
	}
	return nil
}
