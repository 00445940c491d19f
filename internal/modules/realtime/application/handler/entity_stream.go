package handler

import (
	"context"
	"log/slog"
	"strings"

	"acapulcoWs/internal/modules/realtime/application/port"
	"acapulcoWs/internal/modules/realtime/application/usecase"
	"acapulcoWs/internal/modules/realtime/domain"
)

// EntityStreamHandler forwards an entity's change events to the websocket
// clients and then refreshes the snapshot of the day the change belongs to.
type EntityStreamHandler struct {
	entity         string
	allowedActions map[string]struct{}
	broadcastUC    *usecase.BroadcastUseCase
	feed           port.DayFeed
}

func NewEntityStreamHandler(entity string, allowedActions []string, broadcastUC *usecase.BroadcastUseCase, feed port.DayFeed) *EntityStreamHandler {
	actionSet := make(map[string]struct{}, len(allowedActions))
	for _, a := range allowedActions {
		if v := strings.TrimSpace(strings.ToLower(a)); v != "" {
			actionSet[v] = struct{}{}
		}
	}
	return &EntityStreamHandler{
		entity:         strings.TrimSpace(entity),
		allowedActions: actionSet,
		broadcastUC:    broadcastUC,
		feed:           feed,
	}
}

func (h *EntityStreamHandler) Topic() string { return h.entity }

func (h *EntityStreamHandler) Handle(ctx context.Context, msg *domain.Message) error {
	if len(h.allowedActions) > 0 {
		if _, ok := h.allowedActions[strings.ToLower(msg.Action)]; !ok {
			return nil
		}
	}
	if msg.Entity == "" {
		msg.Entity = h.entity
	}
	if msg.Topic == "" && msg.Action != "" {
		msg.Topic = domain.CustomTopic(msg.Entity, msg.Action)
	}
	h.broadcastUC.Execute(ctx, msg)
	return h.refreshSnapshot(ctx, msg)
}

func (h *EntityStreamHandler) refreshSnapshot(ctx context.Context, msg *domain.Message) error {
	if h.feed == nil {
		return nil
	}
	if strings.EqualFold(msg.Action, domain.ActionSnapshot) {
		return nil
	}
	day := strings.TrimSpace(msg.Day())
	if day == "" {
		day = h.feed.Today()
	}
	slog.Info("entity-stream refresh", slog.String("entity", h.entity), slog.String("action", msg.Action), slog.String("day", day))
	return h.feed.Reload(ctx, day)
}

var _ port.TopicHandler = (*EntityStreamHandler)(nil)
