package infrastructure

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"acapulcoWs/internal/modules/realtime/domain"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 1 << 16
)

type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	userID     string
	sessionID  string
	commands   *CommandProcessor
	subscribed map[string]struct{}
	closeOnce  sync.Once
	receiveAll bool
	closeHooks []func(*Client)
	hookMu     sync.Mutex

	sendMu sync.Mutex
	closed bool

	dayMu sync.RWMutex
	day   string
}

// NewClient wraps an upgraded connection. day scopes the client to one
// business day; empty means every day.
func NewClient(hub *Hub, conn *websocket.Conn, userID, sessionID, day string, buf int, commandFn CommandHandler) *Client {
	if buf <= 0 {
		buf = 1
	}
	client := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, buf),
		userID:     userID,
		sessionID:  sessionID,
		subscribed: make(map[string]struct{}),
		day:        strings.TrimSpace(day),
	}
	client.commands = NewCommandProcessor(hub, commandFn)
	return client
}

func (c *Client) UserID() string { return c.userID }
func (c *Client) SessionID() string { return c.sessionID }

// Commands exposes the processor so callers can register extra actions.
func (c *Client) Commands() *CommandProcessor { return c.commands }

func (c *Client) Day() string {
	c.dayMu.RLock()
	defer c.dayMu.RUnlock()
	return c.day
}

func (c *Client) SetDay(day string) {
	c.dayMu.Lock()
	c.day = strings.TrimSpace(day)
	c.dayMu.Unlock()
}

// EnableReceiveAll marks the client as a global subscriber that receives every broadcasted message
// regardless of topic-specific subscriptions.
func (c *Client) EnableReceiveAll() {
	c.receiveAll = true
}

func (c *Client) key() string {
	return c.userID + ":" + c.sessionID
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.invokeCloseHooks()
	})
}

// AddCloseHook registers a callback that will be executed once when the client closes.
func (c *Client) AddCloseHook(fn func(*Client)) {
	if fn == nil {
		return
	}
	c.hookMu.Lock()
	c.closeHooks = append(c.closeHooks, fn)
	c.hookMu.Unlock()
}

func (c *Client) invokeCloseHooks() {
	c.hookMu.Lock()
	hooks := append([]func(*Client){}, c.closeHooks...)
	c.closeHooks = nil
	c.hookMu.Unlock()

	for _, hook := range hooks {
		func(h func(*Client)) {
			defer func() {
				if r := recover(); r != nil {
					slog.Warn("ws close hook panic", slog.Any("error", r))
				}
			}()
			h(c)
		}(hook)
	}
}

// enqueue drops slow clients instead of blocking the broadcaster.
func (c *Client) enqueue(data []byte) {
	c.sendMu.Lock()
	if c.closed {
		c.sendMu.Unlock()
		return
	}
	select {
	case c.send <- data:
		c.sendMu.Unlock()
	default:
		c.sendMu.Unlock()
		slog.Warn("websocket send buffer full", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID))
		go c.hub.detachClient(c)
	}
}

func (c *Client) SendDomainMessage(msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal error", slog.Any("error", err))
		return
	}
	c.enqueue(data)
}

func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("websocket write error", slog.Any("error", err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("websocket ping error", slog.Any("error", err))
				return
			}
		}
	}
}

func (c *Client) ReadPump() {
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	defer c.hub.detachClient(c)
	for {
		var cmd Command
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read error", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID), slog.Any("error", err))
			}
			return
		}
		c.processCommand(cmd)
	}
}

func (c *Client) processCommand(cmd Command) {
	if c.commands == nil {
		return
	}
	c.commands.Process(c, cmd)
}
