package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"acapulcoWs/internal/modules/realtime/application/port"
	domain "acapulcoWs/internal/modules/realtime/domain"
	"acapulcoWs/internal/modules/realtime/infrastructure"
	"acapulcoWs/internal/shared/auth"
)

const clientBuffer = 16

// boardCounter numbers board connections so every open board gets its own
// hub slot, even when several share one admin token.
var boardCounter atomic.Uint64

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EntityStreamConfig describes one day-scoped websocket stream.
type EntityStreamConfig struct {
	Entity         string
	AllowedActions []string
	Roles          []string
}

// NewEntityWebsocketHandler exposes a board stream such as /ws/admin/orders.
// Clients authenticate with a JWT, pick a day with ?day=YYYY-MM-DD (today by
// default), get the current snapshot on connect and every change afterwards.
// A {"action":"reload","payload":{"day":"..."}} command switches day or
// forces a fresh snapshot.
func NewEntityWebsocketHandler(
	hub *infrastructure.Hub,
	feed port.DayFeed,
	validator auth.TokenValidator,
	cfg EntityStreamConfig,
) func(echo.Context) error {
	entity := strings.TrimSpace(cfg.Entity)
	topics := buildTopics(entity, cfg.AllowedActions)

	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		claims, err := auth.Authorize(validator, auth.ExtractToken(c.Request(), "token"), cfg.Roles...)
		if err != nil {
			status := auth.StatusFor(err)
			slog.Warn("ws handler auth failed", slog.String("entity", entity), slog.String("ip", peerIP), slog.Int("status", status), slog.Any("error", err))
			return echo.NewHTTPError(status, http.StatusText(status))
		}

		day, ok := parseDay(c.QueryParam("day"), feed.Today())
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "day must be YYYY-MM-DD")
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws handler upgrade failed", slog.String("entity", entity), slog.String("ip", peerIP), slog.String("reqID", requestID), slog.Any("error", err))
			return err
		}

		userID := claims.Subject
		sessionID := fmt.Sprintf("board-%d", boardCounter.Add(1))
		client := infrastructure.NewClient(hub, conn, userID, sessionID, day, clientBuffer, nil)

		watch := newDayWatch(feed, day)
		client.AddCloseHook(func(*infrastructure.Client) { watch.release() })
		client.Commands().Register("reload", reloadCommand(feed, watch, entity))

		hub.AttachClient(client, topics)
		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(&domain.Message{
			Topic:  domain.TopicSystemConnected,
			Entity: domain.SystemEntity,
			Action: domain.ActionConnected,
			Metadata: map[string]string{
				domain.MetadataUserID:         userID,
				domain.MetadataSessionID:      sessionID,
				domain.MetadataTokenSessionID: claims.SessionID,
				domain.MetadataDay:            day,
			},
			Data: map[string]any{
				"entity":        entity,
				"day":           day,
				"allowedTopics": topics,
				"roles":         claims.Roles,
			},
			Timestamp: time.Now().UTC(),
		})

		ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
		defer cancel()
		sendSnapshot(ctx, client, feed, entity, day)

		slog.Info("ws connected", slog.String("entity", entity), slog.String("day", day), slog.String("userId", userID), slog.String("sessionId", sessionID), slog.String("tokenSessionId", claims.SessionID), slog.String("ip", peerIP), slog.String("reqID", requestID))
		return nil
	}
}

func reloadCommand(feed port.DayFeed, watch *dayWatch, entity string) infrastructure.CommandHandler {
	return func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		var payload domain.ReloadCommand
		if len(cmd.Payload) > 0 {
			if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
				sendCommandError(client, entity, "reload", "invalid payload")
				return
			}
		}
		day, ok := parseDay(payload.Day, client.Day())
		if !ok {
			sendCommandError(client, entity, "reload", "day must be YYYY-MM-DD")
			return
		}
		if day != client.Day() {
			watch.move(day)
			client.SetDay(day)
		}
		sendSnapshot(ctx, client, feed, entity, day)
	}
}

func sendSnapshot(ctx context.Context, client *infrastructure.Client, feed port.DayFeed, entity, day string) {
	msg, err := feed.SnapshotMessage(ctx, day)
	if err != nil {
		slog.Warn("ws snapshot failed", slog.String("entity", entity), slog.String("day", day), slog.Any("error", err))
		sendCommandError(client, entity, "snapshot", "snapshot unavailable")
		return
	}
	client.SendDomainMessage(msg)
}

func sendCommandError(client *infrastructure.Client, entity, action, reason string) {
	message := domain.BuildErrorMessage(reason, time.Now(), domain.Metadata{
		"entity": entity,
		"action": action,
		"day":    client.Day(),
	})
	message.Topic = domain.CustomTopic(entity, domain.ActionError)
	message.Entity = entity
	client.SendDomainMessage(message)
}

// dayWatch keeps exactly one feed watch alive per connection.
type dayWatch struct {
	mu     sync.Mutex
	feed   port.DayFeed
	stop   func()
	closed bool
}

func newDayWatch(feed port.DayFeed, day string) *dayWatch {
	return &dayWatch{feed: feed, stop: feed.Watch(day)}
}

func (w *dayWatch) move(day string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.stop()
	w.stop = w.feed.Watch(day)
}

func (w *dayWatch) release() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.stop()
}
