package domain

import (
	"strings"
	"time"
)

// BuildSnapshotMessage composes the full state of entity for one day.
func BuildSnapshotMessage(entity, day string, data any, at time.Time, extras Metadata) *Message {
	entityName := strings.TrimSpace(entity)
	trimmedDay := strings.TrimSpace(day)
	metadata := mergeInto(map[string]string{}, Metadata{MetadataDay: trimmedDay})
	metadata = mergeInto(metadata, extras)
	return &Message{
		Topic:      SnapshotTopic(entityName),
		Entity:     entityName,
		Action:     ActionSnapshot,
		ResourceID: trimmedDay,
		Metadata:   metadata,
		Data:       data,
		Timestamp:  at.UTC(),
	}
}

// BuildEventMessage composes a change notification for a single resource.
func BuildEventMessage(entity, action, resourceID string, data any, at time.Time, extras Metadata) *Message {
	entityName := strings.TrimSpace(entity)
	actionName := strings.TrimSpace(action)
	return &Message{
		Topic:      CustomTopic(entityName, actionName),
		Entity:     entityName,
		Action:     actionName,
		ResourceID: strings.TrimSpace(resourceID),
		Metadata:   mergeInto(nil, extras),
		Data:       data,
		Timestamp:  at.UTC(),
	}
}

// BuildErrorMessage reports a failed client command.
func BuildErrorMessage(reason string, at time.Time, extras Metadata) *Message {
	return &Message{
		Topic:     TopicSystemError,
		Entity:    SystemEntity,
		Action:    ActionError,
		Metadata:  mergeInto(nil, extras),
		Data:      map[string]string{"error": strings.TrimSpace(reason)},
		Timestamp: at.UTC(),
	}
}

func mergeInto(target map[string]string, extras Metadata) map[string]string {
	if len(extras) == 0 {
		return target
	}
	if target == nil {
		target = map[string]string{}
	}
	for key, value := range extras {
		trimmedKey := strings.TrimSpace(key)
		trimmedValue := strings.TrimSpace(value)
		if trimmedKey == "" || trimmedValue == "" {
			continue
		}
		target[trimmedKey] = trimmedValue
	}
	return target
}
