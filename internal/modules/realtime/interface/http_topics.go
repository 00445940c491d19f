package transport

import (
	"strings"
	"time"

	domain "acapulcoWs/internal/modules/realtime/domain"
)

func buildTopics(entity string, allowedActions []string) []string {
	entity = strings.TrimSpace(entity)
	baseTopics := []string{
		domain.SnapshotTopic(entity),
		domain.CustomTopic(entity, domain.ActionError),
	}
	topics := make([]string, 0, len(baseTopics)+len(allowedActions))
	seen := make(map[string]struct{}, len(baseTopics)+len(allowedActions))
	for _, topic := range baseTopics {
		if topic == "" {
			continue
		}
		topics = append(topics, topic)
		seen[topic] = struct{}{}
	}
	for _, action := range allowedActions {
		action = strings.TrimSpace(strings.ToLower(action))
		if action == "" {
			continue
		}
		topic := domain.CustomTopic(entity, action)
		if _, exists := seen[topic]; exists {
			continue
		}
		topics = append(topics, topic)
		seen[topic] = struct{}{}
	}
	return topics
}

// parseDay accepts an empty value (meaning fallback) or YYYY-MM-DD.
func parseDay(raw, fallback string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, true
	}
	if _, err := time.Parse(time.DateOnly, raw); err != nil {
		return "", false
	}
	return raw, true
}
