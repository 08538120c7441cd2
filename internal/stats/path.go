package stats

import (
	"fmt"

	"mcpricer/internal/model"
	"mcpricer/internal/model/enum"
	"mcpricer/internal/pathsim"
	"mcpricer/internal/rng"
	"mcpricer/pkg/exception"
)

// SimulatePath runs params.Days trading days from the start price and summarizes the closes.
func SimulatePath(src rng.Source, params model.Params, pathIndex int64) model.PathRecord {
	acc := NewAccumulator()
	price := params.StartPrice
	for range params.Days {
		price = pathsim.SimulateTradingDay(src, price, params.Hours, params.Minutes, params.Drift, params.Volatility, params.DeltaT)
		acc.Observe(price)
	}
	return acc.Record(pathIndex)
}

// ComputePayoff returns the signed distance between the final price and the strike.
// It is not floored at zero.
func ComputePayoff(final, strike float64, side enum.Side) (float64, error) {
	switch side {
	case enum.SideCall:
		return final - strike, nil
	case enum.SidePut:
		return strike - final, nil
	default:
		return 0, fmt.Errorf("%w, got %d", exception.ErrInvalidSide, side)
	}
}
