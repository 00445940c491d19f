package domain

import "strings"

const (
	SystemEntity = "system"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"
	TopicSystemError     = SystemEntity + ".error"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
	ActionSnapshot  = "snapshot"
	ActionCreated   = "created"
	ActionUpdated   = "updated"
)

// SnapshotTopic returns the canonical snapshot topic for the given entity.
func SnapshotTopic(entity string) string {
	return buildEntityTopic(entity, ActionSnapshot)
}

// CreatedTopic returns the canonical created topic for the given entity.
func CreatedTopic(entity string) string {
	return buildEntityTopic(entity, ActionCreated)
}

// UpdatedTopic returns the canonical updated topic for the given entity.
func UpdatedTopic(entity string) string {
	return buildEntityTopic(entity, ActionUpdated)
}

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	return buildEntityTopic(entity, action)
}

func buildEntityTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}
