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

// ProductEventsHandler relays product lifecycle events from the backend
// services onto the websocket emitters.
type ProductEventsHandler struct {
	topic  string
	events *usecase.Events
}

func NewProductEventsHandler(topic string, events *usecase.Events) *ProductEventsHandler {
	return &ProductEventsHandler{topic: topic, events: events}
}

func (h *ProductEventsHandler) Topic() string { return h.topic }

func (h *ProductEventsHandler) Handle(_ context.Context, ev *domain.SourceEvent) error {
	productID := strings.TrimSpace(ev.ResourceID)
	if productID == "" {
		return fmt.Errorf("product event %q missing resourceId", ev.Action)
	}

	switch strings.ToLower(strings.TrimSpace(ev.Action)) {
	case "created", "updated":
		h.events.EmitProductUpdate(productID, decodeAny(ev.Data))
	case "deleted":
		h.events.EmitProductDeleted(productID)
	case "stock_changed":
		var stock struct {
			ProductName string `json:"productName"`
			Stock       int    `json:"stock"`
			MinStock    int    `json:"minStock"`
		}
		if err := json.Unmarshal(ev.Data, &stock); err != nil {
			return fmt.Errorf("decode stock change for %s: %w", productID, err)
		}
		h.events.EmitStockChanged(productID, stock.ProductName, stock.Stock, stock.MinStock)
	}
	return nil
}

func decodeAny(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

var _ port.TopicHandler = (*ProductEventsHandler)(nil)
