package main

import (
	"context"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"mcpricer/internal/model/enum"
	"mcpricer/internal/ops"
	"mcpricer/internal/sink"
	"mcpricer/pkg/conn"
)

// openSink builds every configured record sink. It returns a nil sink when records are not
// persisted or nothing is configured.
func openSink(ctx context.Context, loaded ops.Loaded, runID string) (sink.Sink, error) {
	if loaded.Run.Persist == enum.PersistNone {
		return nil, nil
	}

	var tee sink.Tee
	fail := func(err error) (sink.Sink, error) {
		_ = tee.Close()
		return nil, err
	}

	if loaded.Run.Output != "" {
		csvSink, err := sink.CreateCSV(loaded.Run.Output)
		if err != nil {
			return fail(err)
		}
		tee = append(tee, csvSink)
	}

	if pg := loaded.Postgres; pg != nil {
		client, err := conn.New(ctx, pg.Option)
		if err != nil {
			return fail(errors.Wrap(err, "connect postgres"))
		}
		pgSink, err := sink.NewPostgres(client.DB(), runID, pg.BatchSize)
		if err != nil {
			_ = client.Close()
			return fail(err)
		}
		tee = append(tee, postgresSink{Postgres: pgSink, client: client})
	}

	if kc := loaded.Kafka; kc != nil {
		w, err := conn.NewKafkaWriter(kc.Option)
		if err != nil {
			return fail(errors.Wrap(err, "build kafka writer"))
		}
		tee = append(tee, sink.NewKafka(w, runID, kc.WriteTimeout))
	}

	switch len(tee) {
	case 0:
		logs.Info("records are persisted but no sink is configured, dropping them")
		return nil, nil
	case 1:
		return tee[0], nil
	default:
		return tee, nil
	}
}

// postgresSink closes the connection pool together with the sink.
type postgresSink struct {
	*sink.Postgres
	client *conn.Client
}

func (p postgresSink) Close() error {
	err := p.Postgres.Close()
	if cerr := p.client.Close(); err == nil {
		err = cerr
	}
	return err
}
