// Package rng produces standard normal variates from a per-worker xorshift64* state.
//
// A State is owned by exactly one worker; it is never shared between goroutines.
package rng

import (
	"math"
	"os"
	"time"
)

// MaxRejections bounds the polar rejection loop. A healthy generator accepts a pair with
// probability pi/4, so hitting the bound means the bit source is broken.
const MaxRejections = 1 << 16

const (
	xorshiftMultiplier = 0x2545F4914F6CDD1D
	fallbackSeed       = 0x9E3779B97F4A7C15
	twoPow53           = 1 << 53
)

// Source yields standard normal variates.
type Source interface {
	NextNormal() float64
}

var _ Source = (*State)(nil)

// State is the generator state of one worker.
type State struct {
	word     uint64
	spare    float64
	hasSpare bool

	seeded bool
	base   uint64
	worker uint64
}

// New returns a state seeded with seed.
func New(seed uint64) *State {
	s := &State{}
	s.seed(seed)
	return s
}

// ForWorker returns a state that derives its seed from base and worker on the first draw.
func ForWorker(base uint64, worker int) *State {
	return &State{base: base, worker: uint64(worker)}
}

// SeedBase returns a process-unique seed base built from the wall clock and the pid.
func SeedBase() uint64 {
	return uint64(time.Now().UnixNano()) ^ (uint64(os.Getpid()) << 32)
}

// DeriveSeed mixes a seed base with a worker index. Distinct workers sharing a base always
// get distinct seeds.
func DeriveSeed(base uint64, worker int) uint64 {
	seed := splitmix64(base + uint64(worker)*fallbackSeed)
	if seed == 0 {
		// xorshift never leaves zero
		seed = fallbackSeed
	}
	return seed
}

func (s *State) seed(seed uint64) {
	if seed == 0 {
		seed = fallbackSeed
	}
	s.word = seed
	s.spare = 0
	s.hasSpare = false
	s.seeded = true
}

// NextNormal returns one standard normal sample. The second value of every polar pair is
// cached and returned by the following call. NaN is returned if the rejection loop gives up.
func (s *State) NextNormal() float64 {
	if !s.seeded {
		s.seed(DeriveSeed(s.base, int(s.worker)))
	}
	if s.hasSpare {
		s.hasSpare = false
		return s.spare
	}

	x1, x2, ok := Polar(s.uniform, MaxRejections)
	if !ok {
		return math.NaN()
	}
	s.spare = x2
	s.hasSpare = true
	return x1
}

// uniform returns a sample in [-1, 1).
func (s *State) uniform() float64 {
	s.word ^= s.word >> 12
	s.word ^= s.word << 25
	s.word ^= s.word >> 27
	bits := (s.word * xorshiftMultiplier) >> 11
	return 2*(float64(bits)/twoPow53) - 1
}

// Polar applies the Marsaglia polar transform to pairs drawn from uniform, which must
// return samples in [-1, 1]. It gives up after limit rejected pairs.
func Polar(uniform func() float64, limit int) (x1, x2 float64, ok bool) {
	for range limit {
		u1 := uniform()
		u2 := uniform()
		w := u1*u1 + u2*u2
		if w >= 1 || w == 0 {
			continue
		}
		mult := math.Sqrt(-2 * math.Log(w) / w)
		return u1 * mult, u2 * mult, true
	}
	return 0, 0, false
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}
