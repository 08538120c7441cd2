package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"mcpricer/internal/model/enum"
	"mcpricer/pkg/exception"
)

func validParams() Params {
	return Params{
		StartPrice: 100,
		Drift:      0.1,
		Volatility: 0.2,
		DeltaT:     1.0 / TradingDaysPerYear,
		Days:       252,
		Hours:      6,
		Minutes:    60,
		Strike:     105,
		Side:       enum.SideCall,
		Iterations: 1000,
	}
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, validParams().Validate())

	testCases := []struct {
		name   string
		modify func(p *Params)
		want   error
	}{
		{"zero start price", func(p *Params) { p.StartPrice = 0 }, exception.ErrInvalidStartPrice},
		{"nan start price", func(p *Params) { p.StartPrice = math.NaN() }, exception.ErrInvalidStartPrice},
		{"negative volatility", func(p *Params) { p.Volatility = -0.1 }, exception.ErrInvalidVolatility},
		{"zero deltaT", func(p *Params) { p.DeltaT = 0 }, exception.ErrInvalidDeltaT},
		{"zero days", func(p *Params) { p.Days = 0 }, exception.ErrInvalidDays},
		{"negative hours", func(p *Params) { p.Hours = -1 }, exception.ErrInvalidIntraday},
		{"negative minutes", func(p *Params) { p.Minutes = -1 }, exception.ErrInvalidIntraday},
		{"infinite strike", func(p *Params) { p.Strike = math.Inf(1) }, exception.ErrInvalidStrike},
		{"unknown side", func(p *Params) { p.Side = 0 }, exception.ErrInvalidSide},
		{"zero iterations", func(p *Params) { p.Iterations = 0 }, exception.ErrInvalidIterations},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.modify(&p)
			require.ErrorIs(t, p.Validate(), tc.want)
		})
	}
}
