package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpricer/pkg/exception"
)

func TestAggregateDropsNonFinite(t *testing.T) {
	var agg Aggregate
	assert.True(t, agg.Add(1.5))
	assert.False(t, agg.Add(math.NaN()))
	assert.False(t, agg.Add(math.Inf(1)))
	assert.False(t, agg.Add(math.Inf(-1)))
	assert.True(t, agg.Add(-0.5))

	assert.Equal(t, int64(2), agg.Count)
	avg, err := agg.Average()
	require.NoError(t, err)
	assert.Equal(t, 0.5, avg)
}

func TestAggregateAverageEmpty(t *testing.T) {
	var agg Aggregate
	agg.Add(math.NaN())
	_, err := agg.Average()
	require.ErrorIs(t, err, exception.ErrNoFinitePayoff)
}

func TestAggregateOrderIndependent(t *testing.T) {
	// quarter multiples keep every partial sum exact
	payoffs := make([]float64, 200)
	for i := range payoffs {
		payoffs[i] = float64(i%37-18) * 0.25
	}

	var base Aggregate
	for _, p := range payoffs {
		base.Add(p)
	}
	want, err := base.Average()
	require.NoError(t, err)

	r := rand.New(rand.NewSource(7))
	for range 10 {
		r.Shuffle(len(payoffs), func(i, j int) { payoffs[i], payoffs[j] = payoffs[j], payoffs[i] })

		var left, right Aggregate
		for i, p := range payoffs {
			if i%2 == 0 {
				left.Add(p)
			} else {
				right.Add(p)
			}
		}
		right.Merge(left)
		got, err := right.Average()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNewReport(t *testing.T) {
	runID := uuid.New()

	rep := NewReport(runID, 2, 4, Aggregate{Sum: 9, Count: 3})
	assert.Equal(t, runID, rep.RunID)
	assert.Equal(t, 2, rep.Rank)
	assert.Equal(t, 4, rep.Size)
	assert.Equal(t, 3.0, rep.Average)
	assert.Equal(t, Aggregate{Sum: 9, Count: 3}, rep.Aggregate())

	empty := NewReport(runID, 0, 4, Aggregate{})
	assert.True(t, math.IsNaN(empty.Average))
	assert.Equal(t, int64(0), empty.Count)
}
