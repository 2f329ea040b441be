package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

// KafkaConsumer reads domain events from one topic within a consumer group.
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume reads until the context is cancelled, decoding each record into a
// SourceEvent and handing it to the handler. Handler errors are logged and
// the offset still advances; this gateway offers no redelivery.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*domain.SourceEvent) error) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			continue
		}
		ev, err := decodeSourceEvent(m)
		if err != nil {
			slog.Warn("kafka event decode error", slog.String("topic", m.Topic), slog.Int64("offset", m.Offset), slog.Any("error", err))
			continue
		}
		slog.Info("kafka event consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", ev.Entity),
			slog.String("action", ev.Action),
			slog.String("resourceId", ev.ResourceID),
		)
		if err := handler(ev); err != nil {
			slog.Warn("kafka handler error", slog.String("topic", m.Topic), slog.Any("error", err))
		}
	}
}

func decodeSourceEvent(m kafka.Message) (*domain.SourceEvent, error) {
	var ev domain.SourceEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return nil, err
	}
	ev.Topic = m.Topic
	if ev.Entity == "" {
		ev.Entity = inferEntity(m.Topic)
	}
	if strings.TrimSpace(ev.Action) == "" {
		return nil, errors.New("event missing action")
	}
	return &ev, nil
}

// inferEntity derives the entity from a topic name like "omnix.products".
func inferEntity(topic string) string {
	if idx := strings.LastIndex(topic, "."); idx >= 0 {
		topic = topic[idx+1:]
	}
	return strings.TrimSpace(topic)
}

// StartConsumers launches one consumer goroutine per registered topic. With
// no brokers configured the gateway still runs; emitters are then only
// reachable through the in-process API.
func StartConsumers(ctx context.Context, registry *HandlerRegistry, brokers []string, groupID string) {
	if len(brokers) == 0 {
		slog.Warn("no kafka brokers configured, skipping consumers")
		return
	}
	for _, topic := range registry.Topics() {
		go func(tp string) {
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			if err := consumer.Consume(ctx, func(ev *domain.SourceEvent) error {
				return registry.Dispatch(ctx, ev)
			}); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("kafka consumer stopped", slog.String("topic", tp), slog.Any("error", err))
			}
		}(topic)
	}
}
