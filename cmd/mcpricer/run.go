package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"github.com/yanun0323/logs"

	"mcpricer/internal/engine"
	"mcpricer/internal/model/enum"
	"mcpricer/internal/obs"
	"mcpricer/internal/ops"
	"mcpricer/internal/report"
	"mcpricer/internal/sink"
)

func runAction(c *cli.Context) error {
	loaded, err := resolveConfig(c)
	if err != nil {
		return err
	}

	stopProfiler, err := startProfiler(c.String("pyroscope"), "run")
	if err != nil {
		return err
	}
	defer stopProfiler()

	runID := uuid.NewString()
	out, err := openSink(c.Context, loaded, runID)
	if err != nil {
		return err
	}

	metrics := obs.NewMetrics()
	res, err := runShare(c.Context, loaded, shareSpec{paths: loaded.Params.Iterations, persist: loaded.Run.Persist}, out, metrics)
	if out != nil {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}
	logMetrics(runID, metrics)

	avg, err := res.Average()
	if err != nil {
		return err
	}
	line, err := report.Result(avg)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, line)
	return nil
}

type shareSpec struct {
	paths   int
	offset  int64
	persist enum.PersistMode
}

// runShare prices share.paths paths of loaded.Params starting at global index share.offset.
func runShare(ctx context.Context, loaded ops.Loaded, share shareSpec, out sink.Sink, metrics *obs.Metrics) (engine.Result, error) {
	params := loaded.Params
	params.Iterations = share.paths

	opt := engine.Options{
		Workers:     loaded.Run.Workers,
		Schedule:    loaded.Run.Schedule,
		Chunk:       loaded.Run.Chunk,
		Persist:     share.persist,
		IndexOffset: share.offset,
		Sink:        out,
		Metrics:     metrics,
	}

	e, err := engine.New(params, opt)
	if err != nil {
		return engine.Result{}, err
	}

	logs.Infof("pricing %d paths from index %d on %d workers, schedule %s, persist %s",
		params.Iterations, share.offset, e.Workers(), loaded.Run.Schedule, share.persist)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	res, err := e.Run(ctx)
	if err != nil {
		return engine.Result{}, err
	}
	runtime.ReadMemStats(&after)

	logs.Infof("priced %d paths (%d dropped) in %s, allocs %d, bytes %d",
		res.Aggregate.Count, res.Dropped, res.Elapsed, after.Mallocs-before.Mallocs, after.TotalAlloc-before.TotalAlloc)
	return res, nil
}

func logMetrics(runID string, metrics *obs.Metrics) {
	snap := metrics.Snapshot()
	logs.Infof("run %s: paths %d, dropped %d, persisted %d, received %d, rejected %d",
		runID, snap.Paths, snap.DroppedPayoffs, snap.RecordsPersisted, snap.RecordsReceived, snap.RejectedReports)
	logs.Infof("run %s: path latency avg %s min %s max %s, sink latency avg %s max %s",
		runID, snap.PathLatency.Avg, snap.PathLatency.Min, snap.PathLatency.Max, snap.SinkLatency.Avg, snap.SinkLatency.Max)
}
