package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"

	"mcpricer/internal/model/enum"
	"mcpricer/internal/ops"
)

const (
	envPrefix     = "MCPRICER_"
	defaultOutput = "./data/stats.csv"
)

func env(name string) []string {
	return []string{envPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))}
}

func simulationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "JSON config file, flags override it", EnvVars: env("config")},
		&cli.IntFlag{Name: "iterations", Aliases: []string{"i"}, Value: ops.DefaultIterations, Usage: "number of paths", EnvVars: env("iterations")},
		&cli.Float64Flag{Name: "starting-price", Aliases: []string{"x"}, Value: ops.DefaultStartPrice, Usage: "price at day 0", EnvVars: env("starting-price")},
		&cli.Float64Flag{Name: "mu", Aliases: []string{"e"}, Value: ops.DefaultDrift, Usage: "annualized drift", EnvVars: env("mu")},
		&cli.Float64Flag{Name: "sigma", Aliases: []string{"v"}, Value: ops.DefaultVolatility, Usage: "annualized volatility", EnvVars: env("sigma")},
		&cli.Float64Flag{Name: "delta-t", Usage: "one trading day as a year fraction (default 1/days)", EnvVars: env("delta-t")},
		&cli.Float64Flag{Name: "strike", Aliases: []string{"k"}, Value: ops.DefaultStrike, Usage: "strike price", EnvVars: env("strike")},
		&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Value: ops.DefaultDays, Usage: "trading days per path", EnvVars: env("days")},
		&cli.IntFlag{Name: "hours", Aliases: []string{"H"}, Value: ops.DefaultHours, Usage: "hour steps per day", EnvVars: env("hours")},
		&cli.IntFlag{Name: "minutes", Aliases: []string{"m"}, Value: ops.DefaultMinutes, Usage: "minute steps per hour", EnvVars: env("minutes")},
		&cli.StringFlag{Name: "call-put", Aliases: []string{"c"}, Value: ops.DefaultSide.String(), Usage: "call or put", EnvVars: env("call-put")},
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "0 runs on one goroutine, 1 fans out over --workers", EnvVars: env("parallel")},
		&cli.IntFlag{Name: "workers", Usage: fmt.Sprintf("worker goroutines when parallel, 0 = GOMAXPROCS (%d)", runtime.GOMAXPROCS(0)), EnvVars: env("workers")},
		&cli.StringFlag{Name: "schedule", Value: enum.ScheduleStatic.String(), Usage: "static, dynamic or guided", EnvVars: env("schedule")},
		&cli.IntFlag{Name: "chunk", Usage: "schedule chunk size, 0 = schedule default", EnvVars: env("chunk")},
		&cli.IntFlag{Name: "save-stats", Aliases: []string{"s"}, Usage: "1 persists per-path records", EnvVars: env("save-stats")},
		&cli.StringFlag{Name: "persist", Usage: "none, direct or buffered (overrides --save-stats)", EnvVars: env("persist")},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: defaultOutput, Usage: "stats csv file, empty disables it", EnvVars: env("output")},
		&cli.StringFlag{Name: "pg-dsn", Usage: "also insert records into postgres", EnvVars: env("pg-dsn")},
		&cli.StringSliceFlag{Name: "kafka-broker", Usage: "also publish records to kafka", EnvVars: env("kafka-broker")},
		&cli.StringFlag{Name: "kafka-topic", Value: "mcpricer.paths", Usage: "kafka topic of records", EnvVars: env("kafka-topic")},
		&cli.StringFlag{Name: "pyroscope", Usage: "pyroscope server address, empty disables profiling", EnvVars: env("pyroscope")},
	}
}

func runFlags() []cli.Flag {
	return append(simulationFlags(), engineFlags()...)
}

func clusterFlags() []cli.Flag {
	return append(runFlags(),
		&cli.IntFlag{Name: "processes", Aliases: []string{"n"}, Value: 2, Usage: "number of ranks including this one", EnvVars: env("processes")},
		&cli.StringFlag{Name: "socket", Value: ops.DefaultSocket, Usage: "collector unix socket", EnvVars: env("socket")},
		&cli.StringFlag{Name: "merge", Value: enum.MergeMeanOfMeans.String(), Usage: "mean-of-means or pooled", EnvVars: env("merge")},
		&cli.BoolFlag{Name: "await-records", Usage: "wait until the collector consumed each record batch", EnvVars: env("await-records")},
	)
}

func workerFlags() []cli.Flag {
	return append(clusterFlags(),
		&cli.IntFlag{Name: "rank", Required: true},
		&cli.StringFlag{Name: "run-id", Required: true},
	)
}
