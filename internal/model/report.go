package model

import (
	"math"

	"github.com/google/uuid"
)

// Report is one process's contribution to a cluster run.
type Report struct {
	RunID   uuid.UUID
	Rank    int
	Size    int
	Sum     float64
	Count   int64
	Average float64
}

// NewReport builds the report of rank for agg. Average is NaN when agg has no finite payoff.
func NewReport(runID uuid.UUID, rank, size int, agg Aggregate) Report {
	avg, err := agg.Average()
	if err != nil {
		avg = math.NaN()
	}
	return Report{
		RunID:   runID,
		Rank:    rank,
		Size:    size,
		Sum:     agg.Sum,
		Count:   agg.Count,
		Average: avg,
	}
}

// Aggregate returns the sum and count carried by the report.
func (r Report) Aggregate() Aggregate {
	return Aggregate{Sum: r.Sum, Count: r.Count}
}
