package infrastructure

import (
	"context"
	"strings"
	"sync"

	"acapulcoWs/internal/modules/realtime/application/port"
	"acapulcoWs/internal/modules/realtime/domain"
)

// HandlerRegistry routes messages by topic first and entity second.
// Messages nobody claims go to the fallback handler, if any.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]port.TopicHandler
	fallback port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[strings.TrimSpace(h.Topic())] = h
}

func (r *HandlerRegistry) SetFallback(h port.TopicHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	r.mu.RLock()
	handler, ok := r.handlers[msg.Topic]
	if !ok {
		handler, ok = r.handlers[msg.Entity]
	}
	if !ok && r.fallback != nil {
		handler, ok = r.fallback, true
	}
	r.mu.RUnlock()
	if ok {
		return handler.Handle(ctx, msg)
	}
	return nil
}

var _ port.Dispatcher = (*HandlerRegistry)(nil)
