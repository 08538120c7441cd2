package exception

import "errors"

// Simulation errors
var (
	ErrInvalidSide         = errors.New("simulation: side should be call or put")
	ErrInvalidStartPrice   = errors.New("simulation: start price must be > 0")
	ErrInvalidDays         = errors.New("simulation: days must be > 0")
	ErrInvalidIntraday     = errors.New("simulation: hours and minutes must be >= 0")
	ErrInvalidVolatility   = errors.New("simulation: volatility must be >= 0")
	ErrInvalidDeltaT       = errors.New("simulation: deltaT must be > 0")
	ErrInvalidIterations   = errors.New("simulation: iterations must be > 0")
	ErrInvalidStrike       = errors.New("simulation: strike must be finite")
	ErrNoFinitePayoff      = errors.New("simulation: no finite payoff to average")
	ErrInvalidWorkerConfig = errors.New("simulation: invalid worker config")
	ErrNilSink             = errors.New("simulation: persist mode requires a sink")
	ErrNoRecords           = errors.New("simulation: no records")
)
