package handler

import (
	"context"
	"strings"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/port"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/usecase"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

// RecommendationEventsHandler relays freshly generated recommendations onto
// the websocket emitters.
type RecommendationEventsHandler struct {
	topic  string
	events *usecase.Events
}

func NewRecommendationEventsHandler(topic string, events *usecase.Events) *RecommendationEventsHandler {
	return &RecommendationEventsHandler{topic: topic, events: events}
}

func (h *RecommendationEventsHandler) Topic() string { return h.topic }

func (h *RecommendationEventsHandler) Handle(_ context.Context, ev *domain.SourceEvent) error {
	switch strings.ToLower(strings.TrimSpace(ev.Action)) {
	case "created", "new":
		h.events.EmitNewRecommendation(decodeAny(ev.Data))
	}
	return nil
}

var _ port.TopicHandler = (*RecommendationEventsHandler)(nil)
