package infrastructure

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/omnix-ai/realtime-gateway/internal/platform/metrics"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

const (
	readLimit    = 1 << 16
	readDeadline = 60 * time.Second
	pingInterval = 30 * time.Second
	writeTimeout = 5 * time.Second
)

// Client is one admitted websocket connection: identity claims, channel
// membership and a buffered outbound queue drained by WritePump.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	id          string
	userID      string
	email       string
	role        string
	connectedAt time.Time
	joined      map[string]struct{}
	commands    *CommandProcessor

	// sendMu orders enqueue against close: the send channel is only closed
	// while the mutex is held and closed is set, so a broadcast racing a
	// detach can never write to a closed channel.
	sendMu    sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewClient builds a client for an upgraded connection. The identity fields
// come from verified JWT claims; buf sizes the outbound queue.
func NewClient(hub *Hub, conn *websocket.Conn, id, userID, email, role string, buf int, commands *CommandProcessor) *Client {
	if buf <= 0 {
		buf = 8
	}
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, buf),
		id:          id,
		userID:      userID,
		email:       email,
		role:        role,
		connectedAt: time.Now().UTC(),
		joined:      make(map[string]struct{}),
		commands:    commands,
	}
}

func (c *Client) ID() string     { return c.id }
func (c *Client) UserID() string { return c.userID }
func (c *Client) Email() string  { return c.email }

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// enqueue hands a marshalled frame to the write pump. Frames arriving after
// the client closed are dropped. A full buffer means the consumer is not
// keeping up; the client is detached rather than blocked on.
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
		slog.Warn("ws send buffer full, detaching", slog.String("connId", c.id), slog.String("userId", c.userID))
		metrics.DetachedSlowConsumers.Inc()
		go c.hub.detachClient(c)
	}
}

// SendFrame marshals and queues an acknowledgement or error frame for this
// connection only.
func (c *Client) SendFrame(frame domain.Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("ws frame marshal error", slog.String("connId", c.id), slog.Any("error", err))
		return
	}
	c.enqueue(data)
}

// SendEnvelope queues a direct envelope push for this connection only,
// stamping the timestamp if the caller left it unset.
func (c *Client) SendEnvelope(env *domain.Envelope) {
	if env == nil {
		return
	}
	if env.Timestamp.IsZero() {
		env.Timestamp = time.Now().UTC()
	}
	c.SendFrame(domain.Frame{Event: domain.EventMessage, Data: env})
}

// WritePump drains the send queue onto the socket and keeps the connection
// alive with ping control frames. Per-socket send order follows queue order.
func (c *Client) WritePump() {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("ws write error", slog.String("connId", c.id), slog.Any("error", err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				slog.Warn("ws ping error", slog.String("connId", c.id), slog.Any("error", err))
				return
			}
		}
	}
}

// ReadPump reads inbound command frames until the connection drops, then
// detaches the client from the hub.
func (c *Client) ReadPump() {
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})
	defer c.hub.detachClient(c)
	for {
		var cmd domain.Command
		_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("ws read error", slog.String("connId", c.id), slog.String("userId", c.userID), slog.Any("error", err))
			}
			return
		}
		if c.commands != nil {
			c.commands.Process(c, cmd)
		}
	}
}
