package cluster

import (
	"fmt"
	"math"

	"mcpricer/internal/model"
	"mcpricer/internal/model/enum"
	"mcpricer/pkg/exception"
)

// Merge folds the reports of every rank into one average.
//
// MergeMeanOfMeans sums the local averages and divides by the number of reports; a rank
// without a finite payoff makes it fail. MergePooled divides the total sum by the total count.
func Merge(reports []model.Report, mode enum.MergeMode) (float64, error) {
	if len(reports) == 0 {
		return 0, exception.ErrMissingReports
	}

	switch mode {
	case enum.MergeMeanOfMeans:
		var sum float64
		for _, rep := range reports {
			if rep.Count == 0 || math.IsNaN(rep.Average) || math.IsInf(rep.Average, 0) {
				return 0, fmt.Errorf("%w, rank %d", exception.ErrNoFinitePayoff, rep.Rank)
			}
			sum += rep.Average
		}
		return sum / float64(len(reports)), nil
	case enum.MergePooled:
		var agg model.Aggregate
		for _, rep := range reports {
			agg.Merge(rep.Aggregate())
		}
		return agg.Average()
	default:
		return 0, fmt.Errorf("%w, got %d", exception.ErrInvalidMergeMode, mode)
	}
}
