package infrastructure

import (
	"context"
	"time"

	"acapulcoWs/internal/modules/orders/application/port"
	"acapulcoWs/internal/modules/orders/domain"
	rtport "acapulcoWs/internal/modules/realtime/application/port"
)

// LocalPublisher hands order events straight to the in-process handlers.
// It is used when no broker is configured.
type LocalPublisher struct {
	dispatcher rtport.Dispatcher
	now        func() time.Time
}

func NewLocalPublisher(dispatcher rtport.Dispatcher) *LocalPublisher {
	return &LocalPublisher{dispatcher: dispatcher, now: time.Now}
}

func (p *LocalPublisher) Publish(ctx context.Context, event domain.Event) error {
	return p.dispatcher.Dispatch(ctx, ToMessage(event, p.now()))
}

var _ port.EventPublisher = (*LocalPublisher)(nil)
