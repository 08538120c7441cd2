package sink

import (
	"errors"
	"sync"

	"mcpricer/internal/model"
)

// Sink receives finished path records. Implementations are not required to be safe for
// concurrent use; the engine and the collector serialize writes.
type Sink interface {
	Write(records ...model.PathRecord) error
	Close() error
}

// Tee fans every write out to all sinks in order.
type Tee []Sink

func (t Tee) Write(records ...model.PathRecord) error {
	for _, s := range t {
		if err := s.Write(records...); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (t Tee) Close() error {
	var errs []error
	for _, s := range t {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Locked serializes Write and Close of s, for sinks fed by more than one producer.
func Locked(s Sink) Sink {
	return &locked{s: s}
}

type locked struct {
	mu sync.Mutex
	s  Sink
}

func (l *locked) Write(records ...model.PathRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Write(records...)
}

func (l *locked) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Close()
}
