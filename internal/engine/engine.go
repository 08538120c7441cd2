package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yanun0323/errors"
	"golang.org/x/sync/errgroup"

	"mcpricer/internal/model"
	"mcpricer/internal/model/enum"
	"mcpricer/internal/obs"
	"mcpricer/internal/rng"
	"mcpricer/internal/stats"
	"mcpricer/pkg/exception"
)

// Sink accepts finished path records. The engine never calls Write concurrently.
type Sink interface {
	Write(records ...model.PathRecord) error
}

// Options controls how a run is spread over workers.
type Options struct {
	// Workers is the parallelism degree. 1 runs on the calling goroutine, 0 uses GOMAXPROCS.
	Workers  int
	Schedule enum.Schedule
	// Chunk is the schedule's chunk size. 0 picks the schedule default.
	Chunk   int
	Persist enum.PersistMode
	Sink    Sink
	// SeedBase feeds every worker's rng. 0 draws a fresh process-unique base.
	SeedBase uint64
	// IndexOffset is the global index of the first path of this run.
	IndexOffset int64
	Metrics     *obs.Metrics
}

// Result is the outcome of one run.
type Result struct {
	Aggregate model.Aggregate
	Dropped   int64
	// Records holds every record in worker order when Persist is buffered.
	Records []model.PathRecord
	Workers int
	Elapsed time.Duration
}

// Average returns the mean finite payoff.
func (r Result) Average() (float64, error) {
	return r.Aggregate.Average()
}

// Engine prices one set of params.
type Engine struct {
	params model.Params
	opt    Options

	sinkMu sync.Mutex
}

// New validates params and options.
func New(params model.Params, opt Options) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if opt.Workers < 0 || opt.Chunk < 0 {
		return nil, fmt.Errorf("%w, workers %d chunk %d", exception.ErrInvalidWorkerConfig, opt.Workers, opt.Chunk)
	}
	if opt.Schedule == 0 {
		opt.Schedule = enum.ScheduleStatic
	}
	if !opt.Schedule.IsAvailable() {
		return nil, fmt.Errorf("%w, schedule %d", exception.ErrInvalidWorkerConfig, opt.Schedule)
	}
	if opt.Persist == 0 {
		opt.Persist = enum.PersistNone
	}
	if !opt.Persist.IsAvailable() {
		return nil, fmt.Errorf("%w, persist mode %d", exception.ErrInvalidWorkerConfig, opt.Persist)
	}
	if opt.Persist == enum.PersistDirect && opt.Sink == nil {
		return nil, exception.ErrNilSink
	}
	if opt.Workers == 0 {
		opt.Workers = runtime.GOMAXPROCS(0)
	}
	opt.Workers = min(opt.Workers, params.Iterations)
	if opt.SeedBase == 0 {
		opt.SeedBase = rng.SeedBase()
	}
	return &Engine{params: params, opt: opt}, nil
}

// Workers returns the resolved parallelism degree.
func (e *Engine) Workers() int {
	return e.opt.Workers
}

type workerState struct {
	agg     model.Aggregate
	dropped int64
	records []model.PathRecord
}

// Run simulates every path and reduces the payoffs. An invalid side or a sink error aborts
// the run; a non-finite payoff only drops its own path.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	workers := e.opt.Workers
	d := newDispatcher(e.opt.Schedule, e.params.Iterations, workers, e.opt.Chunk)
	states := make([]workerState, workers)

	if workers == 1 {
		if err := e.work(ctx, 0, d, &states[0]); err != nil {
			return Result{}, err
		}
	} else {
		eg, egCtx := errgroup.WithContext(ctx)
		for w := range workers {
			eg.Go(func() error {
				return e.work(egCtx, w, d, &states[w])
			})
		}
		if err := eg.Wait(); err != nil {
			return Result{}, err
		}
	}

	res := Result{Workers: workers}
	for i := range states {
		res.Aggregate.Merge(states[i].agg)
		res.Dropped += states[i].dropped
	}

	if e.opt.Persist == enum.PersistBuffered {
		total := 0
		for i := range states {
			total += len(states[i].records)
		}
		res.Records = make([]model.PathRecord, 0, total)
		for i := range states {
			res.Records = append(res.Records, states[i].records...)
		}
		if e.opt.Sink != nil {
			if err := e.persist(res.Records...); err != nil {
				return Result{}, err
			}
		}
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

func (e *Engine) work(ctx context.Context, worker int, d dispatcher, st *workerState) error {
	src := rng.ForWorker(e.opt.SeedBase, worker)
	for {
		lo, hi, ok := d.next(worker)
		if !ok {
			return nil
		}
		for i := lo; i < hi; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			pathStart := time.Now()
			rec := stats.SimulatePath(src, e.params, e.opt.IndexOffset+int64(i))
			payoff, err := stats.ComputePayoff(rec.LastPrice, e.params.Strike, e.params.Side)
			if err != nil {
				return err
			}
			if !st.agg.Add(payoff) {
				st.dropped++
				e.opt.Metrics.IncDroppedPayoff()
			}
			e.opt.Metrics.ObservePath(time.Since(pathStart))

			switch e.opt.Persist {
			case enum.PersistDirect:
				if err := e.persist(rec); err != nil {
					return err
				}
			case enum.PersistBuffered:
				st.records = append(st.records, rec)
			}
		}
	}
}

func (e *Engine) persist(records ...model.PathRecord) error {
	start := time.Now()
	e.sinkMu.Lock()
	err := e.opt.Sink.Write(records...)
	e.sinkMu.Unlock()
	if err != nil {
		return errors.Wrap(err, "write records").With("records", len(records))
	}
	e.opt.Metrics.ObservePersist(len(records), time.Since(start))
	return nil
}
