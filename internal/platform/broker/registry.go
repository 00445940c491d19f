package broker

import (
	"context"
	"log/slog"
	"sync"

	"acapulcoWs/internal/modules/realtime/application/port"
	"acapulcoWs/internal/modules/realtime/domain"
)

// StartKafkaConsumers starts one consumer per topic and feeds every message
// to dispatcher. The returned WaitGroup completes once ctx is cancelled and
// all readers are closed.
func StartKafkaConsumers(
	ctx context.Context,
	dispatcher port.Dispatcher,
	brokers []string,
	groupID string,
	topics []string,
) *sync.WaitGroup {
	var wg sync.WaitGroup
	if len(brokers) == 0 {
		// No brokers configured; kafka.NewReader panics on an empty broker list.
		slog.Info("kafka consumers disabled: no brokers configured")
		return &wg
	}
	for _, topic := range topics {
		if topic == "" {
			continue
		}
		consumer := NewKafkaConsumer(brokers, groupID, topic)
		wg.Add(1)
		go func(tp string) {
			defer wg.Done()
			run(ctx, consumer, tp, dispatcher)
		}(topic)
	}
	return &wg
}

func run(ctx context.Context, consumer port.Consumer, topic string, dispatcher port.Dispatcher) {
	slog.Info("kafka consumer started", slog.String("topic", topic))
	err := consumer.Consume(ctx, func(msg *domain.Message) error {
		return dispatcher.Dispatch(ctx, msg)
	})
	slog.Info("kafka consumer stopped", slog.String("topic", topic), slog.Any("reason", err))
}
