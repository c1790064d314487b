// Package publisher announces sale products on Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentranbao-ct/sale-sailor/internal/config"
	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/logger"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, events ...models.SaleEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer  messageWriter
	topic   string
	metrics *prometheus.HistogramVec
	log     *zap.SugaredLogger
}

// NewPublisher returns a Kafka backed publisher, or a noop one when
// publishing is disabled.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	pc := cfg.Sale.Publisher
	if !pc.Enabled {
		return &noopPublisher{}, nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(pc.Brokers...),
		Topic:        pc.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: pc.BatchTimeout,
		WriteTimeout: pc.WriteTimeout,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(writer, pc.Topic)
}

func newKafkaPublisher(writer messageWriter, topic string) (*kafkaPublisher, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_published", "status", "topic")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &kafkaPublisher{
		writer:  writer,
		topic:   topic,
		metrics: metrics,
		log:     logger.MustNamed("publisher"),
	}, nil
}

// Publish writes one message per event keyed by vendor and SKU so updates to
// a product land on the same partition.
func (p *kafkaPublisher) Publish(ctx context.Context, events ...models.SaleEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		value, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal sale event %s: %w", ev.Key(), err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.Key()),
			Value: value,
			Time:  ev.FetchedAt,
			Headers: []kafka.Header{
				{Key: "event_id", Value: []byte(uuid.NewString())},
				{Key: "vendor", Value: []byte(ev.Vendor)},
			},
		})
	}

	start := time.Now()
	err := p.writer.WriteMessages(ctx, msgs...)
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.metrics.WithLabelValues(status, p.topic).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("write messages: %w", err)
	}

	logger.Ctx(ctx, p.log).Debugw("published messages", "topic", p.topic, "count", len(msgs))
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

func (*noopPublisher) Publish(context.Context, ...models.SaleEvent) error { return nil }

func (*noopPublisher) Close() error { return nil }
