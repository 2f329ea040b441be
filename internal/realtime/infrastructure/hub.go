package infrastructure

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/omnix-ai/realtime-gateway/internal/platform/metrics"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

// Hub is the single source of truth for live connections and channel
// membership. Channels have no backing entity: a channel exists precisely
// while at least one client is joined to it, and broadcasting to an empty
// channel is a no-op.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	channels map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		channels: make(map[string]map[*Client]struct{}),
	}
}

// Register inserts a client by connection id. Reusing an id overwrites the
// previous registration and detaches its client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if existing, ok := h.clients[c.id]; ok && existing != c {
		h.detachLocked(existing)
	}
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	metrics.ActiveConnections.Set(float64(total))
	slog.Info("ws client registered", slog.String("connId", c.id), slog.String("userId", c.userID), slog.Int("active", total))
}

// Unregister removes a connection by id. Unknown ids are ignored so that
// disconnect races stay harmless.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	c, ok := h.clients[connID]
	if ok {
		h.detachLocked(c)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	metrics.ActiveConnections.Set(float64(total))
	slog.Info("ws client unregistered", slog.String("connId", connID), slog.Int("active", total))
}

// Join adds the client to a channel's membership set.
func (h *Hub) Join(c *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*Client]struct{})
	}
	h.channels[channel][c] = struct{}{}
	c.joined[channel] = struct{}{}
}

// Leave removes the client from a channel. Leaving a channel the client never
// joined is a no-op.
func (h *Hub) Leave(c *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.channels[channel]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
	delete(c.joined, channel)
}

// detachClient removes the client from the registry and every channel, and
// closes it. Used by the pumps on transport-level disconnect.
func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	h.detachLocked(c)
	total := len(h.clients)
	h.mu.Unlock()
	metrics.ActiveConnections.Set(float64(total))
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	for channel := range c.joined {
		if members, ok := h.channels[channel]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.channels, channel)
			}
		}
	}
	if registered, ok := h.clients[c.id]; ok && registered == c {
		delete(h.clients, c.id)
	}
	c.close()
	slog.Info("ws client detached", slog.String("connId", c.id), slog.String("userId", c.userID))
}

// BroadcastToChannel stamps the envelope with the channel name and the
// current time, then delivers it to every joined client. Delivery is
// at-most-once per member; slow consumers are detached, not retried.
func (h *Hub) BroadcastToChannel(channel string, env *domain.Envelope) {
	if env == nil {
		return
	}
	env.Channel = channel
	env.Timestamp = time.Now().UTC()

	data, err := json.Marshal(domain.Frame{Event: domain.EventMessage, Data: env})
	if err != nil {
		slog.Error("broadcast marshal error", slog.String("channel", channel), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.channels[channel]))
	for c := range h.channels[channel] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.enqueue(data)
	}

	metrics.BroadcastsTotal.WithLabelValues(env.Type).Inc()
	slog.Debug("broadcast", slog.String("channel", channel), slog.String("type", env.Type), slog.Int("members", len(members)))
}

// BroadcastToAll delivers on the global channel; every admitted connection is
// auto-joined to it, so this reaches everyone.
func (h *Hub) BroadcastToAll(env *domain.Envelope) {
	h.BroadcastToChannel(domain.ChannelGlobal, env)
}

// SendToUser delivers only to the given user's own connections via the
// per-user channel each connection auto-joins at admission.
func (h *Hub) SendToUser(userID string, env *domain.Envelope) {
	h.BroadcastToChannel(domain.UserChannel(userID), env)
}

// Stats returns the live connection listing for diagnostics.
func (h *Hub) Stats() domain.ConnectionStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]domain.ConnectionInfo, 0, len(h.clients))
	for _, c := range h.clients {
		users = append(users, domain.ConnectionInfo{
			ID:          c.id,
			UserID:      c.userID,
			Email:       c.email,
			Role:        c.role,
			ConnectedAt: c.connectedAt,
		})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ConnectedAt.Before(users[j].ConnectedAt) })
	return domain.ConnectionStats{
		TotalConnections: len(h.clients),
		ConnectedUsers:   users,
	}
}
