package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"mcpricer/internal/model"
	"mcpricer/internal/model/enum"
	"mcpricer/internal/rng"
	"mcpricer/pkg/exception"
)

func TestAccumulatorMatchesPopulationStats(t *testing.T) {
	closes := []float64{101.2, 99.7, 100.4, 103.9, 98.1, 102.5, 100.0}
	acc := NewAccumulator()
	for _, c := range closes {
		acc.Observe(c)
	}
	rec := acc.Record(9)

	mean, std := stat.PopMeanStdDev(closes, nil)
	assert.Equal(t, int64(10), rec.Index)
	assert.InDelta(t, mean, rec.Mean, 1e-9)
	assert.InDelta(t, std, rec.StdDev, 1e-6)
	assert.Equal(t, floats.Min(closes), rec.Min)
	assert.Equal(t, floats.Max(closes), rec.Max)
	assert.Equal(t, 100.0, rec.LastPrice)
}

func TestAccumulatorSingleClose(t *testing.T) {
	acc := NewAccumulator()
	acc.Observe(42.5)
	rec := acc.Record(0)
	assert.Equal(t, int64(1), rec.Index)
	assert.Equal(t, 42.5, rec.Mean)
	assert.Equal(t, 42.5, rec.Min)
	assert.Equal(t, 42.5, rec.Max)
	assert.Equal(t, 0.0, rec.StdDev)
	assert.Equal(t, 42.5, rec.LastPrice)
}

func TestAccumulatorIdenticalClosesHaveZeroStdDev(t *testing.T) {
	acc := NewAccumulator()
	for range 50 {
		acc.Observe(100)
	}
	assert.Equal(t, 0.0, acc.Record(0).StdDev)
}

func TestSimulatePathInvariants(t *testing.T) {
	params := testParams()
	params.Days = 30
	params.Hours = 2
	params.Minutes = 5

	src := rng.New(77)
	for i := range int64(50) {
		rec := SimulatePath(src, params, i)
		require.Equal(t, i+1, rec.Index)
		assert.GreaterOrEqual(t, rec.StdDev, 0.0)
		assert.LessOrEqual(t, rec.Min, rec.Mean)
		assert.GreaterOrEqual(t, rec.Max, rec.Mean)
		assert.LessOrEqual(t, rec.Min, rec.LastPrice)
		assert.GreaterOrEqual(t, rec.Max, rec.LastPrice)
	}
}

func TestSimulatePathFlat(t *testing.T) {
	params := testParams()
	params.Drift = 0
	params.Volatility = 0
	params.Days = 1
	params.Hours = 1
	params.Minutes = 1

	rec := SimulatePath(rng.New(3), params, 0)
	assert.Equal(t, 100.0, rec.LastPrice)
	assert.Equal(t, 0.0, rec.StdDev)

	payoff, err := ComputePayoff(rec.LastPrice, 100, enum.SideCall)
	require.NoError(t, err)
	assert.Equal(t, 0.0, payoff)
}

func TestComputePayoff(t *testing.T) {
	call, err := ComputePayoff(110, 105, enum.SideCall)
	require.NoError(t, err)
	assert.Equal(t, 5.0, call)

	put, err := ComputePayoff(110, 105, enum.SidePut)
	require.NoError(t, err)
	assert.Equal(t, -5.0, put, "payoff is signed, not floored")

	call, err = ComputePayoff(90, 105, enum.SideCall)
	require.NoError(t, err)
	assert.Equal(t, -15.0, call)

	_, err = ComputePayoff(110, 105, enum.Side(0))
	require.ErrorIs(t, err, exception.ErrInvalidSide)
}

func TestComputePayoffNonFinite(t *testing.T) {
	payoff, err := ComputePayoff(math.NaN(), 105, enum.SideCall)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(payoff))
}

func testParams() model.Params {
	return model.Params{
		StartPrice: 100,
		Drift:      0.1,
		Volatility: 0.2,
		DeltaT:     1.0 / model.TradingDaysPerYear,
		Days:       252,
		Hours:      6,
		Minutes:    60,
		Strike:     105,
		Side:       enum.SideCall,
		Iterations: 1,
	}
}
