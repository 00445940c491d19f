package domain

import "time"

// Metadata carries routing hints such as the day a message belongs to.
type Metadata map[string]string

const (
	MetadataDay       = "day"
	MetadataUserID    = "userId"
	MetadataSessionID = "sessionId"
	// MetadataTokenSessionID is the session claim of the token a client
	// connected with. Several connections may share it.
	MetadataTokenSessionID = "tokenSessionId"
)

// Message is the envelope shared by the broker and the websocket clients.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Day is the business day the message is scoped to, if any.
func (m *Message) Day() string {
	if m == nil || m.Metadata == nil {
		return ""
	}
	return m.Metadata[MetadataDay]
}
