package sink

import (
	"context"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/yanun0323/errors"

	"mcpricer/internal/codec"
	"mcpricer/internal/model"
)

const runIDHeader = "run_id"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes one message per record, keyed by path index, with the binary record as value.
type Kafka struct {
	w       messageWriter
	runID   string
	timeout time.Duration
	msgs    []kafka.Message
}

// NewKafka wraps a producer. timeout bounds every Write; 0 means no bound.
func NewKafka(w *kafka.Writer, runID string, timeout time.Duration) *Kafka {
	return newKafka(w, runID, timeout)
}

func newKafka(w messageWriter, runID string, timeout time.Duration) *Kafka {
	return &Kafka{w: w, runID: runID, timeout: timeout}
}

func (k *Kafka) Write(records ...model.PathRecord) error {
	if len(records) == 0 {
		return nil
	}

	k.msgs = k.msgs[:0]
	for _, rec := range records {
		k.msgs = append(k.msgs, kafka.Message{
			Key:     strconv.AppendInt(nil, rec.Index, 10),
			Value:   codec.EncodePathRecord(nil, rec),
			Headers: []kafka.Header{{Key: runIDHeader, Value: []byte(k.runID)}},
		})
	}

	ctx := context.Background()
	if k.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}
	if err := k.w.WriteMessages(ctx, k.msgs...); err != nil {
		return errors.Wrap(err, "publish path records").With("records", len(records))
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.w.Close()
}
