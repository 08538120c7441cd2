package conn

import (
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	defaultKafkaBatchSize    = 1000
	defaultKafkaBatchTimeout = 50 * time.Millisecond
)

// KafkaOption defines producer options for a single topic.
type KafkaOption struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	MaxAttempts  int
	Compress     bool
}

// NewKafkaWriter builds a producer. Connections are opened lazily on the first write.
func NewKafkaWriter(option KafkaOption) (*kafka.Writer, error) {
	if len(option.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers")
	}
	if option.Topic == "" {
		return nil, errors.New("kafka: empty topic")
	}

	batchSize := option.BatchSize
	if batchSize <= 0 {
		batchSize = defaultKafkaBatchSize
	}
	batchTimeout := option.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = defaultKafkaBatchTimeout
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(option.Brokers...),
		Topic:                  option.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              batchSize,
		BatchTimeout:           batchTimeout,
		MaxAttempts:            option.MaxAttempts,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	if option.Compress {
		w.Compression = kafka.Snappy
	}
	return w, nil
}
