package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/port"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/usecase"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

// OrderEventsHandler relays order lifecycle events onto the websocket
// emitters.
type OrderEventsHandler struct {
	topic  string
	events *usecase.Events
}

func NewOrderEventsHandler(topic string, events *usecase.Events) *OrderEventsHandler {
	return &OrderEventsHandler{topic: topic, events: events}
}

func (h *OrderEventsHandler) Topic() string { return h.topic }

func (h *OrderEventsHandler) Handle(_ context.Context, ev *domain.SourceEvent) error {
	switch strings.ToLower(strings.TrimSpace(ev.Action)) {
	case "created":
		h.events.EmitNewOrder(decodeAny(ev.Data))
	case "status_changed":
		orderID := strings.TrimSpace(ev.ResourceID)
		if orderID == "" {
			return fmt.Errorf("order status event missing resourceId")
		}
		var change struct {
			Status         string `json:"status"`
			PreviousStatus string `json:"previousStatus"`
		}
		if err := json.Unmarshal(ev.Data, &change); err != nil {
			return fmt.Errorf("decode status change for %s: %w", orderID, err)
		}
		h.events.EmitOrderStatusChanged(orderID, change.Status, change.PreviousStatus)
	}
	return nil
}

var _ port.TopicHandler = (*OrderEventsHandler)(nil)
