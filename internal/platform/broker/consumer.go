package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"acapulcoWs/internal/modules/realtime/application/port"
	"acapulcoWs/internal/modules/realtime/domain"
	"acapulcoWs/internal/shared/normalization"
)

const readBackoff = time.Second

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume blocks until ctx is cancelled and returns ctx's error.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*domain.Message) error) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			slog.Warn("kafka read error", slog.String("topic", c.reader.Config().Topic), slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(readBackoff):
			}
			continue
		}
		msg := decodeMessage(m)
		slog.Info("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", msg.Entity),
			slog.String("action", msg.Action),
			slog.String("resourceId", msg.ResourceID),
			slog.String("day", msg.Day()),
		)
		if err := handler(msg); err != nil {
			slog.Warn("kafka handler error", slog.String("topic", msg.Topic), slog.Any("error", err))
		}
	}
}

type rawEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata"`
	Data       json.RawMessage   `json:"data"`
	Timestamp  time.Time         `json:"timestamp"`
}

func decodeMessage(m kafka.Message) *domain.Message {
	msg := &domain.Message{Timestamp: time.Now().UTC()}

	var event rawEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		msg.Topic = m.Topic
		msg.Entity, msg.Action = inferEntityActionFromTopic(m.Topic)
		msg.Data = string(m.Value)
		return msg
	}

	msg.Entity = normalization.NormalizeEntity(firstNonEmpty(event.Entity, normalizeTopic(m.Topic)))
	msg.Action = firstNonEmpty(event.Action, "unknown")
	msg.ResourceID = firstNonEmpty(event.ResourceID, string(m.Key))
	msg.Metadata = event.Metadata
	if len(event.Data) > 0 {
		msg.Data = event.Data
	}
	if !event.Timestamp.IsZero() {
		msg.Timestamp = event.Timestamp.UTC()
	}

	if event.Topic != "" {
		msg.Topic = event.Topic
	} else {
		msg.Topic = domain.CustomTopic(msg.Entity, msg.Action)
	}

	return msg
}

func inferEntityActionFromTopic(topic string) (string, string) {
	parts := strings.Split(topic, ".")
	if len(parts) >= 2 {
		entity := strings.TrimSpace(parts[len(parts)-2])
		action := strings.TrimSpace(parts[len(parts)-1])
		if entity != "" && action != "" {
			return entity, action
		}
	}
	if entity := normalizeTopic(topic); entity != "" {
		return entity, "unknown"
	}
	return "", "unknown"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func normalizeTopic(topic string) string {
	if idx := strings.LastIndex(topic, "."); idx >= 0 {
		topic = topic[idx+1:]
	}
	return strings.TrimSpace(topic)
}

var _ port.Consumer = (*KafkaConsumer)(nil)
