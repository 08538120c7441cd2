package main

import (
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"golang.org/x/sync/errgroup"

	"mcpricer/internal/cluster"
	"mcpricer/internal/model"
	"mcpricer/internal/model/enum"
	"mcpricer/internal/obs"
	"mcpricer/internal/report"
	"mcpricer/internal/sink"
	"mcpricer/pkg/uds"
)

const dialTimeout = 5 * time.Second

// clusterAction is rank 0: it collects, runs its own share and starts ranks 1..n-1 as children.
func clusterAction(c *cli.Context) error {
	loaded, err := resolveConfig(c)
	if err != nil {
		return err
	}
	size := loaded.Cluster.Processes
	total := loaded.Params.Iterations

	stopProfiler, err := startProfiler(c.String("pyroscope"), "collector")
	if err != nil {
		return err
	}
	defer stopProfiler()

	runID := uuid.New()
	out, err := openSink(c.Context, loaded, runID.String())
	if err != nil {
		return err
	}
	if out != nil {
		out = sink.Locked(out)
		defer func() {
			if err := out.Close(); err != nil {
				logs.Errorf("close sink, err: %+v", err)
			}
		}()
	}

	metrics := obs.NewMetrics()
	collector, err := cluster.NewCollector(loaded.Cluster.Socket, runID, size, cluster.CollectorOption{
		Sink:    out,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}
	defer collector.Close()

	exe, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "resolve executable")
	}

	logs.Infof("cluster %s: %d paths over %d ranks, socket %s", runID, total, size, collector.Path())

	eg, egCtx := errgroup.WithContext(c.Context)
	for rank := 1; rank < size; rank++ {
		args := workerArgs(os.Args, c.Command.Name, rank, size, runID, collector.Path())
		eg.Go(func() error {
			cmd := exec.CommandContext(egCtx, exe, args...)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			if err := cmd.Run(); err != nil {
				return errors.Wrap(err, "worker exited").With("rank", rank)
			}
			return nil
		})
	}

	eg.Go(func() error {
		share, err := cluster.Partition(total, size, 0)
		if err != nil {
			return err
		}
		var agg model.Aggregate
		if share > 0 {
			res, err := runShare(egCtx, loaded, shareSpec{paths: share, persist: loaded.Run.Persist}, out, metrics)
			if err != nil {
				return err
			}
			agg = res.Aggregate
		}
		return collector.Submit(model.NewReport(runID, 0, size, agg))
	})

	reports, err := collector.Wait(egCtx)
	if werr := eg.Wait(); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}
	if err := collector.Close(); err != nil {
		return err
	}
	logMetrics(runID.String(), metrics)

	avg, err := cluster.Merge(reports, loaded.Cluster.Merge)
	if err != nil {
		return err
	}
	line, err := report.Result(avg)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write([]byte(line + "\n"))
	return err
}

// rankFlags are set by the collector for every worker and never forwarded from argv.
var rankFlags = []string{"n", "processes", "socket", "rank", "run-id"}

// workerArgs re-issues the command line argv as the worker command of one rank.
func workerArgs(argv []string, command string, rank, size int, runID uuid.UUID, socket string) []string {
	args := []string{"worker"}
	if i := slices.Index(argv, command); i >= 0 {
		args = append(args, stripFlags(argv[i+1:], rankFlags)...)
	}
	return append(args,
		"--processes", strconv.Itoa(size),
		"--socket", socket,
		"--rank", strconv.Itoa(rank),
		"--run-id", runID.String(),
	)
}

// stripFlags drops the named flags and their values from args. Every named flag takes a value,
// either inline after '=' or as the next argument.
func stripFlags(args, names []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if !strings.HasPrefix(arg, "-") {
			out = append(out, arg)
			continue
		}
		name, _, inline := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !slices.Contains(names, name) {
			out = append(out, arg)
			continue
		}
		if !inline {
			i++
		}
	}
	return out
}

// workerAction runs one rank's share and reports it to the collector.
func workerAction(c *cli.Context) error {
	loaded, err := resolveConfig(c)
	if err != nil {
		return err
	}
	runID, err := uuid.Parse(c.String("run-id"))
	if err != nil {
		return errors.Wrap(err, "parse run id")
	}
	rank, size, total := c.Int("rank"), loaded.Cluster.Processes, loaded.Params.Iterations

	stopProfiler, err := startProfiler(c.String("pyroscope"), "worker-"+strconv.Itoa(rank))
	if err != nil {
		return err
	}
	defer stopProfiler()

	share, err := cluster.Partition(total, size, rank)
	if err != nil {
		return err
	}
	offset, err := cluster.Offset(total, size, rank)
	if err != nil {
		return err
	}

	client, err := uds.NewClient(loaded.Cluster.Socket, dialTimeout)
	if err != nil {
		return err
	}
	reporter, err := cluster.NewReporter(client, runID, rank, size)
	if err != nil {
		return err
	}

	var agg model.Aggregate
	if share > 0 {
		persist := enum.PersistNone
		if loaded.Run.Persist != enum.PersistNone {
			persist = enum.PersistBuffered
		}
		res, err := runShare(c.Context, loaded, shareSpec{paths: share, offset: offset, persist: persist}, nil, obs.NewMetrics())
		if err != nil {
			return err
		}
		agg = res.Aggregate
		if err := reporter.SendRecords(c.Context, res.Records, loaded.Cluster.AwaitRecords); err != nil {
			return err
		}
	}

	if err := reporter.SendReport(c.Context, agg); err != nil {
		return err
	}
	logs.Infof("rank %d/%d reported %d payoffs", rank, size, agg.Count)
	return nil
}
