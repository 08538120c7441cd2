package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/yanun0323/logs"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logs.Errorf("load .env, err: %+v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		logs.Errorf("mcpricer, err: %+v", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "mcpricer",
		Usage: "Monte-Carlo pricer of a path-dependent payoff",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "price in this process",
				Flags:  runFlags(),
				Action: runAction,
			},
			{
				Name:   "cluster",
				Usage:  "price over several worker processes, this one collects",
				Flags:  clusterFlags(),
				Action: clusterAction,
			},
			{
				Name:   "worker",
				Usage:  "run one rank of a cluster (started by cluster)",
				Hidden: true,
				Flags:  workerFlags(),
				Action: workerAction,
			},
			{
				Name:  "summarize",
				Usage: "print box statistics of a persisted stats file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"f"}, Value: defaultOutput, Usage: "stats csv file"},
				},
				Action: summarizeAction,
			},
		},
	}
}
