package transport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"acapulcoWs/internal/modules/realtime/application/port"
	"acapulcoWs/internal/modules/realtime/domain"
	"acapulcoWs/internal/shared/normalization"
)

// BroadcastRequest is an event pushed over REST, e.g. by a database webhook
// when a row is inserted outside this service.
type BroadcastRequest struct {
	Topic      string            `json:"topic,omitempty"`
	Entity     string            `json:"entity,omitempty"`
	Action     string            `json:"action,omitempty"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
}

// BroadcastResponse represents the response after broadcasting
type BroadcastResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Topic   string `json:"topic"`
}

// NewBroadcastHTTPHandler routes a pushed event through the same handlers
// broker messages go through.
func NewBroadcastHTTPHandler(dispatcher port.Dispatcher) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req BroadcastRequest
		if err := c.Bind(&req); err != nil {
			slog.Warn("broadcast http: invalid request body", slog.Any("error", err))
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}

		msg := &domain.Message{
			Topic:      strings.TrimSpace(req.Topic),
			Entity:     normalization.NormalizeEntity(req.Entity),
			Action:     strings.ToLower(strings.TrimSpace(req.Action)),
			ResourceID: strings.TrimSpace(req.ResourceID),
			Metadata:   req.Metadata,
			Data:       req.Data,
			Timestamp:  time.Now().UTC(),
		}
		if msg.Topic == "" {
			msg.Topic = domain.CustomTopic(msg.Entity, msg.Action)
		}
		if msg.Entity == "" || msg.Action == "" {
			if entity, action, ok := strings.Cut(msg.Topic, "."); ok {
				msg.Entity = firstNonEmpty(msg.Entity, normalization.NormalizeEntity(entity))
				msg.Action = firstNonEmpty(msg.Action, action)
			}
		}
		if msg.Topic == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "topic or entity and action are required")
		}
		if !normalization.IsValidEntity(msg.Entity) {
			return echo.NewHTTPError(http.StatusBadRequest,
				"unknown entity, expected one of "+strings.Join(normalization.GetAllValidEntities(), ", "))
		}

		if err := dispatcher.Dispatch(c.Request().Context(), msg); err != nil {
			slog.Warn("broadcast http: dispatch failed", slog.String("topic", msg.Topic), slog.Any("error", err))
			return echo.NewHTTPError(http.StatusBadGateway, "dispatch failed")
		}

		slog.Info("broadcast http: message dispatched",
			slog.String("topic", msg.Topic),
			slog.String("resourceId", msg.ResourceID),
		)

		return c.JSON(http.StatusOK, BroadcastResponse{
			Success: true,
			Message: "Message broadcasted successfully",
			Topic:   msg.Topic,
		})
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
