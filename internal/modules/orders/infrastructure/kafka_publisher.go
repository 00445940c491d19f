package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"acapulcoWs/internal/modules/orders/application/port"
	"acapulcoWs/internal/modules/orders/domain"
)

// KafkaPublisher writes order events to a topic the realtime consumers read.
type KafkaPublisher struct {
	writer *kafka.Writer
	now    func() time.Time
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
		now: time.Now,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	value, err := json.Marshal(ToMessage(event, p.now()))
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("write order event: %w", err)
	}
	slog.Debug("order event published", slog.String("topic", p.writer.Topic), slog.String("orderId", event.OrderID), slog.String("action", event.Action))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ port.EventPublisher = (*KafkaPublisher)(nil)
