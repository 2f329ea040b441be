package broker

import (
	"context"
	"sort"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

type stubHandler struct {
	topic   string
	handled []*domain.SourceEvent
	err     error
}

func (h *stubHandler) Topic() string { return h.topic }

func (h *stubHandler) Handle(_ context.Context, ev *domain.SourceEvent) error {
	h.handled = append(h.handled, ev)
	return h.err
}

func TestDecodeSourceEvent(t *testing.T) {
	t.Parallel()

	m := kafka.Message{
		Topic: "omnix.products",
		Value: []byte(`{"entity":"product","action":"created","resourceId":"p1","data":{"name":"Widget"}}`),
	}

	ev, err := decodeSourceEvent(m)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Entity != "product" || ev.Action != "created" || ev.ResourceID != "p1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Topic != "omnix.products" {
		t.Fatalf("expected topic stamped, got %q", ev.Topic)
	}
	if len(ev.Data) == 0 {
		t.Fatal("expected raw data preserved")
	}
}

func TestDecodeSourceEventInfersEntityFromTopic(t *testing.T) {
	t.Parallel()

	m := kafka.Message{
		Topic: "omnix.orders",
		Value: []byte(`{"action":"created","resourceId":"o1"}`),
	}

	ev, err := decodeSourceEvent(m)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Entity != "orders" {
		t.Fatalf("expected entity inferred from topic, got %q", ev.Entity)
	}
}

func TestDecodeSourceEventMissingAction(t *testing.T) {
	t.Parallel()

	m := kafka.Message{
		Topic: "omnix.products",
		Value: []byte(`{"entity":"product","resourceId":"p1"}`),
	}

	if _, err := decodeSourceEvent(m); err == nil {
		t.Fatal("expected error for missing action")
	}
}

func TestDecodeSourceEventMalformedJSON(t *testing.T) {
	t.Parallel()

	if _, err := decodeSourceEvent(kafka.Message{Value: []byte(`{`)}); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestInferEntity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		topic string
		want  string
	}{
		{"omnix.products", "products"},
		{"omnix.system", "system"},
		{"alerts", "alerts"},
		{"a.b.c", "c"},
	}
	for _, tc := range cases {
		if got := inferEntity(tc.topic); got != tc.want {
			t.Errorf("inferEntity(%q) = %q, want %q", tc.topic, got, tc.want)
		}
	}
}

func TestRegistryDispatch(t *testing.T) {
	t.Parallel()

	registry := NewHandlerRegistry()
	products := &stubHandler{topic: "omnix.products"}
	orders := &stubHandler{topic: "omnix.orders"}
	registry.Register(products)
	registry.Register(orders)

	topics := registry.Topics()
	sort.Strings(topics)
	if len(topics) != 2 || topics[0] != "omnix.orders" || topics[1] != "omnix.products" {
		t.Fatalf("unexpected topics: %v", topics)
	}

	ev := &domain.SourceEvent{Topic: "omnix.products", Action: "created"}
	if err := registry.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(products.handled) != 1 || len(orders.handled) != 0 {
		t.Fatalf("dispatched to the wrong handler: products=%d orders=%d", len(products.handled), len(orders.handled))
	}
}

func TestRegistryDispatchUnknownTopicDropped(t *testing.T) {
	t.Parallel()

	registry := NewHandlerRegistry()
	ev := &domain.SourceEvent{Topic: "omnix.unknown", Action: "created"}
	if err := registry.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("expected unknown topic to be dropped, got %v", err)
	}
}
