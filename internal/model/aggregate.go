package model

import (
	"math"

	"mcpricer/pkg/exception"
)

// Aggregate is the running sum and count of finite payoffs.
// The zero value is ready to use.
type Aggregate struct {
	Sum   float64
	Count int64
}

// Add folds a payoff in. Non-finite payoffs are ignored and reported as false.
func (a *Aggregate) Add(payoff float64) bool {
	if math.IsNaN(payoff) || math.IsInf(payoff, 0) {
		return false
	}
	a.Sum += payoff
	a.Count++
	return true
}

// Merge folds another aggregate in.
func (a *Aggregate) Merge(other Aggregate) {
	a.Sum += other.Sum
	a.Count += other.Count
}

// Average returns Sum/Count, or ErrNoFinitePayoff when nothing was counted.
func (a Aggregate) Average() (float64, error) {
	if a.Count == 0 {
		return 0, exception.ErrNoFinitePayoff
	}
	return a.Sum / float64(a.Count), nil
}
