package report

import (
	"fmt"
	"io"
	"math"
	"slices"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"mcpricer/internal/model"
	"mcpricer/pkg/exception"
)

const resultPlaces = 6

// Result renders the terminal line of a run.
func Result(avg float64) (string, error) {
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return "", exception.ErrNoFinitePayoff
	}
	return "avg payoff is " + decimal.NewFromFloat(avg).StringFixed(resultPlaces), nil
}

// Box is the five-number summary of one column plus mean and standard deviation.
type Box struct {
	Column string
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Columns summarized by Summarize, in output order.
var Columns = []string{"mean", "min", "max", "std_dev", "last_price"}

// Summarize computes a Box for every column of the records. Non-finite values are skipped.
func Summarize(records []model.PathRecord) ([]Box, error) {
	if len(records) == 0 {
		return nil, exception.ErrNoRecords
	}

	pick := []func(model.PathRecord) float64{
		func(r model.PathRecord) float64 { return r.Mean },
		func(r model.PathRecord) float64 { return r.Min },
		func(r model.PathRecord) float64 { return r.Max },
		func(r model.PathRecord) float64 { return r.StdDev },
		func(r model.PathRecord) float64 { return r.LastPrice },
	}

	boxes := make([]Box, 0, len(Columns))
	values := make([]float64, 0, len(records))
	for i, column := range Columns {
		values = values[:0]
		for _, r := range records {
			if v := pick[i](r); !math.IsNaN(v) && !math.IsInf(v, 0) {
				values = append(values, v)
			}
		}
		boxes = append(boxes, summarize(column, values))
	}
	return boxes, nil
}

func summarize(column string, values []float64) Box {
	box := Box{Column: column, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		box.Min, box.Q1, box.Median, box.Q3, box.Max, box.Mean, box.StdDev = nan, nan, nan, nan, nan, nan, nan
		return box
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	box.Min = floats.Min(sorted)
	box.Max = floats.Max(sorted)
	box.Q1 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	box.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	box.Q3 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	box.Mean, box.StdDev = stat.PopMeanStdDev(sorted, nil)
	return box
}

// WriteTable prints boxes as an aligned table.
func WriteTable(w io.Writer, boxes []Box) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintln(tw, "column\tcount\tmin\tq1\tmedian\tq3\tmax\tmean\tstd_dev\t"); err != nil {
		return err
	}
	for _, b := range boxes {
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			b.Column, b.Count, b.Min, b.Q1, b.Median, b.Q3, b.Max, b.Mean, b.StdDev); err != nil {
			return err
		}
	}
	return tw.Flush()
}
