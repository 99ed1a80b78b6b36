package events

import (
	"context"
	"strings"
	"time"

	"spa-backend/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Outbox is the table the relay drains.
type Outbox interface {
	RelayOutbox(ctx context.Context, limit int, publish func(context.Context, []models.OutboxEvent) error) (int, error)
}

// MessageWriter is the part of *kafka.Writer the relay uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type PublisherConfig struct {
	Brokers   string
	PollEvery time.Duration
	BatchSize int
}

// Publisher relays reservation events from the outbox to Kafka. The topic is the event type and
// the key is the reservation id, so events of one reservation stay ordered.
type Publisher struct {
	outbox    Outbox
	logger    *zap.Logger
	brokers   []string
	pollEvery time.Duration
	batchSize int
}

func NewPublisher(outbox Outbox, logger *zap.Logger, cfg PublisherConfig) *Publisher {
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		outbox:    outbox,
		logger:    logger,
		brokers:   SplitBrokers(cfg.Brokers),
		pollEvery: cfg.PollEvery,
		batchSize: cfg.BatchSize,
	}
}

// Run polls the outbox until ctx is done. It returns immediately when no brokers are configured.
func (p *Publisher) Run(ctx context.Context) {
	if len(p.brokers) == 0 {
		p.logger.Warn("outbox publisher disabled (no kafka brokers configured)")
		return
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	defer writer.Close()

	p.logger.Info("outbox publisher started", zap.Strings("brokers", p.brokers))
	ticker := time.NewTicker(p.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.PublishBatch(ctx, writer); err != nil {
				p.logger.Error("outbox publish failed", zap.Error(err))
			}
		}
	}
}

// PublishBatch relays one batch of pending events through writer.
func (p *Publisher) PublishBatch(ctx context.Context, writer MessageWriter) (int, error) {
	n, err := p.outbox.RelayOutbox(ctx, p.batchSize, func(ctx context.Context, events []models.OutboxEvent) error {
		msgs := make([]kafka.Message, 0, len(events))
		for _, e := range events {
			msgs = append(msgs, Message(e))
		}
		return writer.WriteMessages(ctx, msgs...)
	})
	if n > 0 {
		p.logger.Debug("outbox events published", zap.Int("count", n))
	}
	return n, err
}

// Message converts an outbox event into the Kafka message carrying it.
func Message(e models.OutboxEvent) kafka.Message {
	return kafka.Message{
		Topic: e.EventType,
		Key:   []byte(e.AggregateID.String()),
		Value: e.Payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(e.ID.String())},
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "aggregate_type", Value: []byte(e.AggregateType)},
		},
	}
}

func SplitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
