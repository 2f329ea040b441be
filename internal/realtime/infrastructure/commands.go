package infrastructure

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/omnix-ai/realtime-gateway/internal/platform/metrics"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/port"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

// SnapshotPusher pushes current dashboard metrics and alerts to a single
// connection. Implemented by the events service.
type SnapshotPusher interface {
	SendDashboardMetrics(r port.Receiver)
	SendCurrentAlerts(r port.Receiver)
}

type commandHandler func(c *Client, cmd domain.Command)

type subscribeAck struct {
	Channel   string    `json:"channel"`
	ProductID string    `json:"productId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type pongAck struct {
	Timestamp time.Time `json:"timestamp"`
}

// CommandProcessor routes inbound client frames through an explicit dispatch
// table. Every command except ping requires an admitted identity.
type CommandProcessor struct {
	hub       *Hub
	snapshots SnapshotPusher
	handlers  map[string]commandHandler
	open      map[string]struct{}
}

func NewCommandProcessor(hub *Hub, snapshots SnapshotPusher) *CommandProcessor {
	p := &CommandProcessor{
		hub:       hub,
		snapshots: snapshots,
		handlers:  make(map[string]commandHandler),
		open:      map[string]struct{}{domain.CommandPing: {}},
	}
	p.handlers[domain.CommandSubscribe] = p.handleSubscribe
	p.handlers[domain.CommandUnsubscribe] = p.handleUnsubscribe
	p.handlers[domain.CommandSubscribeProduct] = p.handleSubscribeProduct
	p.handlers[domain.CommandUnsubscribeProduct] = p.handleUnsubscribeProduct
	p.handlers[domain.CommandSubscribeAlerts] = p.handleSubscribeAlerts
	p.handlers[domain.CommandGetDashboard] = p.handleGetDashboardMetrics
	p.handlers[domain.CommandPing] = p.handlePing
	return p
}

// Process dispatches one inbound frame. Handler panics degrade to an error
// frame instead of tearing down the read loop.
func (p *CommandProcessor) Process(c *Client, cmd domain.Command) {
	if c == nil {
		return
	}
	event := strings.TrimSpace(cmd.Event)
	if event == "" {
		return
	}

	handler, ok := p.handlers[event]
	if !ok {
		slog.Debug("ws command ignored", slog.String("connId", c.id), slog.String("event", event))
		return
	}
	if _, exempt := p.open[event]; !exempt && c.userID == "" {
		c.SendFrame(errorFrame(domain.ErrorUnauthorized, "authentication required"))
		return
	}

	metrics.CommandsTotal.WithLabelValues(event).Inc()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("ws command panic", slog.String("connId", c.id), slog.String("event", event), slog.Any("error", r))
			c.SendFrame(errorFrame(domain.ErrorInternal, "internal error"))
		}
	}()
	handler(c, cmd)
}

func (p *CommandProcessor) handleSubscribe(c *Client, cmd domain.Command) {
	var payload domain.ChannelPayload
	if err := json.Unmarshal(cmd.Data, &payload); err != nil {
		c.SendFrame(errorFrame(domain.ErrorInvalidPayload, "malformed subscribe payload"))
		return
	}
	channel := strings.TrimSpace(payload.Channel)
	if !domain.IsValidChannel(channel) {
		c.SendFrame(errorFrame(domain.ErrorInvalidChannel, fmt.Sprintf("Channel '%s' is not valid", channel)))
		return
	}
	p.hub.Join(c, channel)
	slog.Info("ws subscribed", slog.String("connId", c.id), slog.String("userId", c.userID), slog.String("channel", channel))
	c.SendFrame(domain.Frame{Event: domain.EventSubscribed, Data: subscribeAck{Channel: channel, Timestamp: time.Now().UTC()}})
}

func (p *CommandProcessor) handleUnsubscribe(c *Client, cmd domain.Command) {
	var payload domain.ChannelPayload
	if err := json.Unmarshal(cmd.Data, &payload); err != nil {
		c.SendFrame(errorFrame(domain.ErrorInvalidPayload, "malformed unsubscribe payload"))
		return
	}
	channel := strings.TrimSpace(payload.Channel)
	p.hub.Leave(c, channel)
	slog.Info("ws unsubscribed", slog.String("connId", c.id), slog.String("userId", c.userID), slog.String("channel", channel))
	c.SendFrame(domain.Frame{Event: domain.EventUnsubscribed, Data: subscribeAck{Channel: channel, Timestamp: time.Now().UTC()}})
}

func (p *CommandProcessor) handleSubscribeProduct(c *Client, cmd domain.Command) {
	productID, ok := decodeProductID(c, cmd)
	if !ok {
		return
	}
	channel := domain.ProductChannel(productID)
	p.hub.Join(c, channel)
	slog.Info("ws product subscribed", slog.String("connId", c.id), slog.String("productId", productID))
	c.SendFrame(domain.Frame{Event: domain.EventSubscribed, Data: subscribeAck{Channel: channel, ProductID: productID, Timestamp: time.Now().UTC()}})
}

func (p *CommandProcessor) handleUnsubscribeProduct(c *Client, cmd domain.Command) {
	productID, ok := decodeProductID(c, cmd)
	if !ok {
		return
	}
	channel := domain.ProductChannel(productID)
	p.hub.Leave(c, channel)
	slog.Info("ws product unsubscribed", slog.String("connId", c.id), slog.String("productId", productID))
	c.SendFrame(domain.Frame{Event: domain.EventUnsubscribed, Data: subscribeAck{Channel: channel, ProductID: productID, Timestamp: time.Now().UTC()}})
}

func (p *CommandProcessor) handleSubscribeAlerts(c *Client, _ domain.Command) {
	p.hub.Join(c, domain.ChannelAlerts)
	slog.Info("ws alerts subscribed", slog.String("connId", c.id), slog.String("userId", c.userID))
	c.SendFrame(domain.Frame{Event: domain.EventSubscribed, Data: subscribeAck{Channel: domain.ChannelAlerts, Timestamp: time.Now().UTC()}})
	if p.snapshots != nil {
		p.snapshots.SendCurrentAlerts(c)
	}
}

func (p *CommandProcessor) handleGetDashboardMetrics(c *Client, _ domain.Command) {
	if p.snapshots != nil {
		p.snapshots.SendDashboardMetrics(c)
	}
}

func (p *CommandProcessor) handlePing(c *Client, _ domain.Command) {
	c.SendFrame(domain.Frame{Event: domain.EventPong, Data: pongAck{Timestamp: time.Now().UTC()}})
}

func decodeProductID(c *Client, cmd domain.Command) (string, bool) {
	var payload domain.ProductPayload
	if err := json.Unmarshal(cmd.Data, &payload); err != nil {
		c.SendFrame(errorFrame(domain.ErrorInvalidPayload, "malformed product payload"))
		return "", false
	}
	productID := strings.TrimSpace(payload.ProductID)
	if productID == "" {
		c.SendFrame(errorFrame(domain.ErrorInvalidPayload, "missing productId"))
		return "", false
	}
	return productID, true
}

func errorFrame(reason, message string) domain.Frame {
	return domain.Frame{Event: domain.EventError, Data: domain.ErrorPayload{Type: reason, Message: message}}
}
