package handler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/usecase"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

type recordedBroadcast struct {
	channel string
	env     domain.Envelope
}

type recordingBroadcaster struct {
	calls []recordedBroadcast
}

func (b *recordingBroadcaster) BroadcastToChannel(channel string, env *domain.Envelope) {
	b.calls = append(b.calls, recordedBroadcast{channel: channel, env: *env})
}

func (b *recordingBroadcaster) BroadcastToAll(env *domain.Envelope) {
	b.BroadcastToChannel(domain.ChannelGlobal, env)
}

func (b *recordingBroadcaster) SendToUser(userID string, env *domain.Envelope) {
	b.BroadcastToChannel(domain.UserChannel(userID), env)
}

func (b *recordingBroadcaster) Stats() domain.ConnectionStats { return domain.ConnectionStats{} }

type nullStore struct{}

func (nullStore) DashboardMetrics() domain.DashboardMetrics   { return domain.DashboardMetrics{} }
func (nullStore) SetDashboardMetrics(domain.DashboardMetrics) {}
func (nullStore) CurrentAlerts() []domain.Alert               { return nil }
func (nullStore) RecordAlert(domain.Alert)                    {}

func newHandlerFixture() (*usecase.Events, *recordingBroadcaster) {
	b := &recordingBroadcaster{}
	e := usecase.NewEvents(nullStore{})
	e.SetBroadcaster(b)
	return e, b
}

func sourceEvent(entity, action, resourceID, data string) *domain.SourceEvent {
	ev := &domain.SourceEvent{Entity: entity, Action: action, ResourceID: resourceID}
	if data != "" {
		ev.Data = json.RawMessage(data)
	}
	return ev
}

func TestProductHandlerCreated(t *testing.T) {
	t.Parallel()

	events, b := newHandlerFixture()
	h := NewProductEventsHandler("omnix.products", events)

	err := h.Handle(context.Background(), sourceEvent("product", "created", "p1", `{"name":"Widget"}`))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(b.calls) != 2 || b.calls[0].channel != "products" || b.calls[1].channel != "product.p1" {
		t.Fatalf("unexpected broadcasts: %+v", b.calls)
	}
	if b.calls[0].env.Type != domain.TypeProductUpdated {
		t.Fatalf("unexpected type: %s", b.calls[0].env.Type)
	}
}

func TestProductHandlerStockChanged(t *testing.T) {
	t.Parallel()

	events, b := newHandlerFixture()
	h := NewProductEventsHandler("omnix.products", events)

	ev := sourceEvent("product", "stock_changed", "p1", `{"productName":"Widget","stock":2,"minStock":5}`)
	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// Threshold breach: stock change on two channels plus the alert cascade.
	if len(b.calls) != 3 {
		t.Fatalf("expected 3 broadcasts, got %+v", b.calls)
	}
	if b.calls[2].channel != "alerts" || b.calls[2].env.Type != domain.TypeAlertCreated {
		t.Fatalf("expected low stock alert, got %+v", b.calls[2])
	}
}

func TestProductHandlerMissingResourceID(t *testing.T) {
	t.Parallel()

	events, b := newHandlerFixture()
	h := NewProductEventsHandler("omnix.products", events)

	if err := h.Handle(context.Background(), sourceEvent("product", "created", "  ", `{}`)); err == nil {
		t.Fatal("expected error for missing resourceId")
	}
	if len(b.calls) != 0 {
		t.Fatalf("expected no broadcasts, got %+v", b.calls)
	}
}

func TestProductHandlerBadStockPayload(t *testing.T) {
	t.Parallel()

	events, _ := newHandlerFixture()
	h := NewProductEventsHandler("omnix.products", events)

	if err := h.Handle(context.Background(), sourceEvent("product", "stock_changed", "p1", `"nope"`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestProductHandlerUnknownActionIgnored(t *testing.T) {
	t.Parallel()

	events, b := newHandlerFixture()
	h := NewProductEventsHandler("omnix.products", events)

	if err := h.Handle(context.Background(), sourceEvent("product", "archived", "p1", `{}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(b.calls) != 0 {
		t.Fatalf("expected no broadcasts, got %+v", b.calls)
	}
}

func TestOrderHandlerStatusChanged(t *testing.T) {
	t.Parallel()

	events, b := newHandlerFixture()
	h := NewOrderEventsHandler("omnix.orders", events)

	ev := sourceEvent("order", "status_changed", "o1", `{"status":"shipped","previousStatus":"pending"}`)
	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(b.calls) != 1 || b.calls[0].channel != "orders" {
		t.Fatalf("unexpected broadcasts: %+v", b.calls)
	}
	change, ok := b.calls[0].env.Payload.(domain.OrderStatusChange)
	if !ok || change.Status != "shipped" || change.PreviousStatus != "pending" {
		t.Fatalf("unexpected payload: %#v", b.calls[0].env.Payload)
	}
}

func TestAlertHandlerCreatedFallsBackToResourceID(t *testing.T) {
	t.Parallel()

	events, b := newHandlerFixture()
	h := NewAlertEventsHandler("omnix.alerts", events)

	ev := sourceEvent("alert", "created", "a1", `{"severity":"critical","title":"DB down"}`)
	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(b.calls) != 2 {
		t.Fatalf("expected urgent cascade, got %+v", b.calls)
	}
	alert := b.calls[0].env.Payload.(domain.Alert)
	if alert.ID != "a1" {
		t.Fatalf("expected id from resourceId, got %q", alert.ID)
	}
	if b.calls[1].channel != "global" || b.calls[1].env.Type != domain.TypeUrgentAlert {
		t.Fatalf("unexpected cascade: %+v", b.calls[1])
	}
}

func TestAlertHandlerDismissed(t *testing.T) {
	t.Parallel()

	events, b := newHandlerFixture()
	h := NewAlertEventsHandler("omnix.alerts", events)

	ev := sourceEvent("alert", "dismissed", "a1", `{"dismissed":true}`)
	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(b.calls) != 1 || b.calls[0].env.Type != domain.TypeAlertUpdated {
		t.Fatalf("unexpected broadcasts: %+v", b.calls)
	}
	payload := b.calls[0].env.Payload.(map[string]any)
	if payload["id"] != "a1" || payload["dismissed"] != true {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestSystemHandlerMaintenance(t *testing.T) {
	t.Parallel()

	events, b := newHandlerFixture()
	h := NewSystemEventsHandler("omnix.system", events)

	ev := sourceEvent("system", "maintenance", "", `{"window":"tonight"}`)
	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(b.calls) != 1 || b.calls[0].channel != "global" {
		t.Fatalf("unexpected broadcasts: %+v", b.calls)
	}
	if b.calls[0].env.Type != domain.TypeSystemMaintenance {
		t.Fatalf("unexpected type: %s", b.calls[0].env.Type)
	}
}

func TestSystemHandlerMetricsUpdated(t *testing.T) {
	t.Parallel()

	events, b := newHandlerFixture()
	h := NewSystemEventsHandler("omnix.system", events)

	ev := sourceEvent("system", "metrics_updated", "", `{"totalProducts":7}`)
	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(b.calls) != 1 || b.calls[0].channel != "dashboard" {
		t.Fatalf("unexpected broadcasts: %+v", b.calls)
	}
}

func TestRecommendationHandlerNew(t *testing.T) {
	t.Parallel()

	events, b := newHandlerFixture()
	h := NewRecommendationEventsHandler("omnix.recommendations", events)

	ev := sourceEvent("recommendation", "new", "r1", `{"id":"r1"}`)
	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(b.calls) != 1 || b.calls[0].channel != "recommendations" {
		t.Fatalf("unexpected broadcasts: %+v", b.calls)
	}
	if b.calls[0].env.Type != domain.TypeRecommendationNew {
		t.Fatalf("unexpected type: %s", b.calls[0].env.Type)
	}
}
