package handler

import (
	"context"

	"acapulcoWs/internal/modules/realtime/application/port"
	"acapulcoWs/internal/modules/realtime/application/usecase"
	"acapulcoWs/internal/modules/realtime/domain"
)

// BroadcastHandler relays any message as is. It serves as the registry
// fallback for topics without a dedicated handler.
type BroadcastHandler struct {
	UseCase *usecase.BroadcastUseCase
}

func (h *BroadcastHandler) Topic() string { return "*" }

func (h *BroadcastHandler) Handle(ctx context.Context, msg *domain.Message) error {
	h.UseCase.Execute(ctx, msg)
	return nil
}

var _ port.TopicHandler = (*BroadcastHandler)(nil)
