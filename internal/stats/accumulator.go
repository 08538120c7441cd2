package stats

import (
	"math"

	"mcpricer/internal/model"
)

// Accumulator tracks the closes of one path without storing them.
type Accumulator struct {
	sum   float64
	sumSq float64
	min   float64
	max   float64
	last  float64
	count int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() Accumulator {
	return Accumulator{min: math.Inf(1), max: math.Inf(-1)}
}

// Observe folds one close in.
func (a *Accumulator) Observe(price float64) {
	a.sum += price
	a.sumSq += price * price
	if price < a.min {
		a.min = price
	}
	if price > a.max {
		a.max = price
	}
	a.last = price
	a.count++
}

// Record finalizes the path statistics. Variance is the population variance
// sumSq/n - mean^2; rounding residue below zero is reported as zero.
func (a *Accumulator) Record(pathIndex int64) model.PathRecord {
	n := float64(a.count)
	mean := a.sum / n
	variance := a.sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return model.PathRecord{
		Index:     pathIndex + 1,
		Mean:      mean,
		Min:       a.min,
		Max:       a.max,
		StdDev:    math.Sqrt(variance),
		LastPrice: a.last,
	}
}
