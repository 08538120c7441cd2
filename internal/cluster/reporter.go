package cluster

import (
	"context"
	"fmt"
	"io"
	"net"
	"slices"

	"github.com/google/uuid"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"mcpricer/internal/codec"
	"mcpricer/internal/model"
	"mcpricer/pkg/exception"
	"mcpricer/pkg/uds"
)

const recordsPerFrame = codec.MaxPayloadSize / codec.RecordPayloadSize

// Reporter is the sending side of ranks 1..size-1. Every call uses its own connection.
type Reporter struct {
	client *uds.Client
	runID  uuid.UUID
	rank   int
	size   int
}

func NewReporter(client *uds.Client, runID uuid.UUID, rank, size int) (*Reporter, error) {
	if client == nil {
		return nil, exception.ErrNilReporterClient
	}
	if size <= 0 || rank < 0 || rank >= size {
		return nil, fmt.Errorf("%w, rank %d of %d", exception.ErrInvalidPartition, rank, size)
	}
	return &Reporter{client: client, runID: runID, rank: rank, size: size}, nil
}

// SendRecords relays a record batch to the collector.
//
// Without await the batch is written by a background goroutine that nobody waits for: a
// process that exits first loses it, and errors are only logged. With await the call returns
// once the collector has consumed the batch and hung up.
func (r *Reporter) SendRecords(ctx context.Context, records []model.PathRecord, await bool) error {
	if len(records) == 0 {
		return nil
	}
	if !await {
		batch := slices.Clone(records)
		go func() {
			if err := r.sendRecords(context.WithoutCancel(ctx), batch, false); err != nil {
				logs.Errorf("rank %d send %d records, err: %+v", r.rank, len(batch), err)
			}
		}()
		return nil
	}
	return r.sendRecords(ctx, records, true)
}

func (r *Reporter) sendRecords(ctx context.Context, records []model.PathRecord, await bool) error {
	conn, err := r.client.Dial(ctx)
	if err != nil {
		return errors.Wrap(err, "dial collector").With("path", r.client.Path())
	}
	defer conn.Close()

	w := codec.NewWriter(conn)
	var buf []byte
	for start := 0; start < len(records); start += recordsPerFrame {
		end := min(start+recordsPerFrame, len(records))
		buf = codec.EncodePathRecords(buf, records[start:end])
		if err := w.WriteFrame(codec.FrameRecords, buf); err != nil {
			return errors.Wrap(err, "write records frame").With("from", start)
		}
	}
	if !await {
		return nil
	}
	return drain(conn)
}

// SendReport sends the rank's aggregate and returns once the collector has consumed it.
func (r *Reporter) SendReport(ctx context.Context, agg model.Aggregate) error {
	conn, err := r.client.Dial(ctx)
	if err != nil {
		return errors.Wrap(err, "dial collector").With("path", r.client.Path())
	}
	defer conn.Close()

	rep := model.NewReport(r.runID, r.rank, r.size, agg)
	if err := codec.NewWriter(conn).WriteFrame(codec.FrameReport, codec.EncodeReport(nil, rep)); err != nil {
		return errors.Wrap(err, "write report frame").With("rank", r.rank)
	}
	return drain(conn)
}

// drain half-closes conn and blocks until the collector closes its end.
func drain(conn *net.UnixConn) error {
	if err := conn.CloseWrite(); err != nil {
		return errors.Wrap(err, "close write side")
	}
	if _, err := io.Copy(io.Discard, conn); err != nil {
		return errors.Wrap(err, "wait for collector")
	}
	return nil
}
