package broker

import (
	"context"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/port"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

// HandlerRegistry maps broker topics to the handler that consumes them.
type HandlerRegistry struct {
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.handlers[h.Topic()] = h
}

// Topics lists every registered topic, for consumer startup.
func (r *HandlerRegistry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

// Dispatch routes an event to its topic's handler. Events on unregistered
// topics are dropped silently.
func (r *HandlerRegistry) Dispatch(ctx context.Context, ev *domain.SourceEvent) error {
	if handler, ok := r.handlers[ev.Topic]; ok {
		return handler.Handle(ctx, ev)
	}
	return nil
}
