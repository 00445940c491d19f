package port

import (
	"context"

	"acapulcoWs/internal/modules/realtime/domain"
)

// Consumer drains an external event stream into handler until ctx ends.
type Consumer interface {
	Consume(ctx context.Context, handler func(*domain.Message) error) error
}

// Broadcaster delivers messages to the connected websocket clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler reacts to the messages of one topic or entity.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}

// Dispatcher routes a message to its registered handler.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *domain.Message) error
}
