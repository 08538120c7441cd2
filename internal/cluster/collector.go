package cluster

import (
	"context"
	"fmt"
	"io"
	"net"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"mcpricer/internal/codec"
	"mcpricer/internal/model"
	"mcpricer/internal/obs"
	"mcpricer/pkg/exception"
	"mcpricer/pkg/uds"
)

const defaultIdleTimeout = 30 * time.Second

// RecordWriter receives relayed path records. Writes are serialized by the collector.
type RecordWriter interface {
	Write(records ...model.PathRecord) error
}

// CollectorOption configures a Collector.
type CollectorOption struct {
	// Sink receives relayed records. Nil discards them.
	Sink    RecordWriter
	Metrics *obs.Metrics
	// IdleTimeout closes a connection that sends nothing for this long. 0 uses 30s.
	IdleTimeout time.Duration
}

// Collector is the rank 0 endpoint of a cluster run.
type Collector struct {
	runID  uuid.UUID
	size   int
	server *uds.Server
	opt    CollectorOption

	mu      sync.Mutex
	reports map[int]model.Report
	done    chan struct{}

	sinkMu  sync.Mutex
	sinkErr error

	closeOnce sync.Once
	closed    chan struct{}
	wg        sync.WaitGroup
}

// NewCollector listens on path and starts accepting connections.
func NewCollector(path string, runID uuid.UUID, size int, opt CollectorOption) (*Collector, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w, size %d", exception.ErrInvalidPartition, size)
	}
	if opt.IdleTimeout <= 0 {
		opt.IdleTimeout = defaultIdleTimeout
	}

	server, err := uds.NewServer(path)
	if err != nil {
		return nil, err
	}
	if err := server.Listen(); err != nil {
		return nil, errors.Wrap(err, "listen collector socket").With("path", path)
	}

	c := &Collector{
		runID:   runID,
		size:    size,
		server:  server,
		opt:     opt,
		reports: make(map[int]model.Report, size),
		done:    make(chan struct{}),
		closed:  make(chan struct{}),
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.acceptLoop()
	}()

	return c, nil
}

// Path returns the socket path reporters dial.
func (c *Collector) Path() string {
	return c.server.Path()
}

func (c *Collector) acceptLoop() {
	for {
		conn, err := c.server.Accept()
		if err != nil {
			if uds.IsClosed(err) {
				return
			}
			logs.Errorf("collector accept, err: %+v", err)
			continue
		}

		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			defer conn.Close()
			c.handle(conn)
		}()
	}
}

func (c *Collector) handle(conn *net.UnixConn) {
	r := codec.NewReader(conn)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(c.opt.IdleTimeout))
		header, payload, err := r.Next()
		if err != nil {
			if err != io.EOF {
				logs.Errorf("collector read frame, err: %+v", err)
			}
			return
		}

		switch header.Type {
		case codec.FrameRecords:
			records, ok := codec.DecodePathRecords(payload)
			if !ok {
				logs.Errorf("collector decode records, err: %+v", exception.ErrPayloadSizeMismatch)
				return
			}
			c.writeRecords(records)
		case codec.FrameReport:
			rep, ok := codec.DecodeReport(payload)
			if !ok {
				logs.Errorf("collector decode report, err: %+v", exception.ErrPayloadSizeMismatch)
				return
			}
			if err := c.accept(rep); err != nil {
				c.opt.Metrics.IncRejectedReport()
				logs.Errorf("collector reject report of rank %d, err: %+v", rep.Rank, err)
			}
		default:
			logs.Errorf("collector frame %d, err: %+v", header.Type, exception.ErrUnknownFrame)
			return
		}
	}
}

func (c *Collector) writeRecords(records []model.PathRecord) {
	c.opt.Metrics.AddRecordsReceived(len(records))
	if c.opt.Sink == nil || len(records) == 0 {
		return
	}

	start := time.Now()
	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()
	if err := c.opt.Sink.Write(records...); err != nil {
		logs.Errorf("collector write %d records, err: %+v", len(records), err)
		if c.sinkErr == nil {
			c.sinkErr = err
		}
		return
	}
	c.opt.Metrics.ObservePersist(len(records), time.Since(start))
}

// Submit hands the collector's own report in without going through the socket.
func (c *Collector) Submit(rep model.Report) error {
	return c.accept(rep)
}

func (c *Collector) accept(rep model.Report) error {
	if rep.RunID != c.runID {
		return fmt.Errorf("%w, got %s", exception.ErrForeignRun, rep.RunID)
	}
	if rep.Size != c.size {
		return fmt.Errorf("%w, want %d got %d", exception.ErrSizeMismatch, c.size, rep.Size)
	}
	if rep.Rank < 0 || rep.Rank >= c.size {
		return fmt.Errorf("%w, rank %d of %d", exception.ErrInvalidPartition, rep.Rank, c.size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.reports[rep.Rank]; ok {
		return fmt.Errorf("%w, rank %d", exception.ErrDuplicateRank, rep.Rank)
	}
	c.reports[rep.Rank] = rep
	if len(c.reports) == c.size {
		close(c.done)
	}
	return nil
}

// Wait blocks until every rank has reported and returns the reports ordered by rank.
func (c *Collector) Wait(ctx context.Context) ([]model.Report, error) {
	select {
	case <-c.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-sys.Shutdown():
		return nil, exception.ErrShutdown
	case <-c.closed:
		return nil, exception.ErrCollectorClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	reports := make([]model.Report, 0, len(c.reports))
	for _, rep := range c.reports {
		reports = append(reports, rep)
	}
	slices.SortFunc(reports, func(a, b model.Report) int { return a.Rank - b.Rank })
	return reports, nil
}

// Close stops accepting, waits for open connections to drain and returns the first sink error.
func (c *Collector) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.server.Close()
		c.wg.Wait()
	})
	if err != nil {
		return err
	}

	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()
	return c.sinkErr
}
