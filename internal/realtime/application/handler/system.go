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

// SystemEventsHandler relays maintenance announcements and dashboard metric
// refreshes onto the websocket emitters.
type SystemEventsHandler struct {
	topic  string
	events *usecase.Events
}

func NewSystemEventsHandler(topic string, events *usecase.Events) *SystemEventsHandler {
	return &SystemEventsHandler{topic: topic, events: events}
}

func (h *SystemEventsHandler) Topic() string { return h.topic }

func (h *SystemEventsHandler) Handle(_ context.Context, ev *domain.SourceEvent) error {
	switch strings.ToLower(strings.TrimSpace(ev.Action)) {
	case "maintenance":
		h.events.EmitSystemMaintenance(decodeAny(ev.Data))
	case "metrics_updated":
		var m domain.DashboardMetrics
		if err := json.Unmarshal(ev.Data, &m); err != nil {
			return fmt.Errorf("decode dashboard metrics: %w", err)
		}
		h.events.EmitDashboardUpdate(m)
	}
	return nil
}

var _ port.TopicHandler = (*SystemEventsHandler)(nil)
