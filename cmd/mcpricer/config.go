package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"mcpricer/internal/model/enum"
	"mcpricer/internal/ops"
)

// resolveConfig layers defaults, the config file and explicitly set flags, in that order.
func resolveConfig(c *cli.Context) (ops.Loaded, error) {
	loaded := ops.Default()
	if path := c.String("config"); path != "" {
		var err error
		if loaded, err = ops.Load(path); err != nil {
			return ops.Loaded{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	p := &loaded.Params
	if c.IsSet("iterations") {
		p.Iterations = c.Int("iterations")
	}
	if c.IsSet("starting-price") {
		p.StartPrice = c.Float64("starting-price")
	}
	if c.IsSet("mu") {
		p.Drift = c.Float64("mu")
	}
	if c.IsSet("sigma") {
		p.Volatility = c.Float64("sigma")
	}
	if c.IsSet("strike") {
		p.Strike = c.Float64("strike")
	}
	if c.IsSet("days") {
		p.Days = c.Int("days")
		if p.Days > 0 {
			p.DeltaT = ops.DeltaTForDays(p.Days)
		}
	}
	if c.IsSet("delta-t") {
		p.DeltaT = c.Float64("delta-t")
	}
	if c.IsSet("hours") {
		p.Hours = c.Int("hours")
	}
	if c.IsSet("minutes") {
		p.Minutes = c.Int("minutes")
	}
	if c.IsSet("call-put") {
		side, err := ops.ParseSide(c.String("call-put"))
		if err != nil {
			return ops.Loaded{}, err
		}
		p.Side = side
	}
	if err := p.Validate(); err != nil {
		return ops.Loaded{}, err
	}

	if err := resolveRunFlags(c, &loaded.Run); err != nil {
		return ops.Loaded{}, err
	}
	if err := resolveClusterFlags(c, &loaded.Cluster); err != nil {
		return ops.Loaded{}, err
	}
	resolveSinkFlags(c, &loaded)
	return loaded, nil
}

func resolveRunFlags(c *cli.Context, run *ops.RunSpec) error {
	switch {
	case c.IsSet("parallel") && c.Int("parallel") == 0:
		run.Workers = 1
	case c.IsSet("parallel") || c.IsSet("workers"):
		run.Workers = c.Int("workers")
	}
	if run.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", run.Workers)
	}

	if c.IsSet("schedule") {
		s, ok := enum.ParseSchedule(c.String("schedule"))
		if !ok {
			return fmt.Errorf("unknown schedule %q", c.String("schedule"))
		}
		run.Schedule = s
	}
	if c.IsSet("chunk") {
		run.Chunk = c.Int("chunk")
	}
	if run.Chunk < 0 {
		return fmt.Errorf("chunk must be >= 0, got %d", run.Chunk)
	}

	if c.IsSet("save-stats") {
		run.Persist = enum.PersistNone
		if c.Int("save-stats") != 0 {
			run.Persist = enum.PersistBuffered
		}
	}
	if c.IsSet("persist") {
		m, ok := enum.ParsePersistMode(c.String("persist"))
		if !ok {
			return fmt.Errorf("unknown persist mode %q", c.String("persist"))
		}
		run.Persist = m
	}
	if c.IsSet("output") || run.Output == "" {
		run.Output = c.String("output")
	}
	return nil
}

func resolveClusterFlags(c *cli.Context, cl *ops.ClusterSpec) error {
	if n := c.Int("processes"); n > 0 && (c.IsSet("processes") || c.String("config") == "") {
		cl.Processes = n
	}
	if c.IsSet("socket") {
		cl.Socket = c.String("socket")
	}
	if c.IsSet("merge") {
		m, ok := enum.ParseMergeMode(c.String("merge"))
		if !ok {
			return fmt.Errorf("unknown merge mode %q", c.String("merge"))
		}
		cl.Merge = m
	}
	if c.IsSet("await-records") {
		cl.AwaitRecords = c.Bool("await-records")
	}
	return nil
}

func resolveSinkFlags(c *cli.Context, loaded *ops.Loaded) {
	if dsn := c.String("pg-dsn"); dsn != "" {
		if loaded.Postgres == nil {
			loaded.Postgres = &ops.PostgresSpec{}
		}
		loaded.Postgres.Option.ConnString = dsn
	}
	if brokers := c.StringSlice("kafka-broker"); len(brokers) != 0 {
		if loaded.Kafka == nil {
			loaded.Kafka = &ops.KafkaSpec{}
		}
		loaded.Kafka.Option.Brokers = brokers
		if c.IsSet("kafka-topic") || loaded.Kafka.Option.Topic == "" {
			loaded.Kafka.Option.Topic = c.String("kafka-topic")
		}
	}
}
