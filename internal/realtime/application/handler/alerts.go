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

// AlertEventsHandler relays alert events onto the websocket emitters.
type AlertEventsHandler struct {
	topic  string
	events *usecase.Events
}

func NewAlertEventsHandler(topic string, events *usecase.Events) *AlertEventsHandler {
	return &AlertEventsHandler{topic: topic, events: events}
}

func (h *AlertEventsHandler) Topic() string { return h.topic }

func (h *AlertEventsHandler) Handle(_ context.Context, ev *domain.SourceEvent) error {
	switch strings.ToLower(strings.TrimSpace(ev.Action)) {
	case "created":
		var alert domain.Alert
		if err := json.Unmarshal(ev.Data, &alert); err != nil {
			return fmt.Errorf("decode alert: %w", err)
		}
		if alert.ID == "" {
			alert.ID = strings.TrimSpace(ev.ResourceID)
		}
		h.events.EmitNewAlert(alert)
	case "updated", "dismissed":
		alertID := strings.TrimSpace(ev.ResourceID)
		if alertID == "" {
			return fmt.Errorf("alert update event missing resourceId")
		}
		var update map[string]any
		if len(ev.Data) > 0 {
			if err := json.Unmarshal(ev.Data, &update); err != nil {
				return fmt.Errorf("decode alert update for %s: %w", alertID, err)
			}
		}
		h.events.EmitAlertUpdate(alertID, update)
	}
	return nil
}

var _ port.TopicHandler = (*AlertEventsHandler)(nil)
