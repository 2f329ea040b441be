package usecase

import (
	"log/slog"
	"time"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/port"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

// Events shapes business events into envelopes and routes them to the right
// channels. Every emitter is fire-and-forget: a broadcast failure is logged
// and absorbed so the triggering domain operation never fails because of it.
type Events struct {
	broadcaster port.Broadcaster
	snapshots   port.SnapshotStore
}

func NewEvents(snapshots port.SnapshotStore) *Events {
	return &Events{snapshots: snapshots}
}

// SetBroadcaster wires the hub once the transport layer is up. Until then
// every emitter logs a warning and skips broadcasting.
func (e *Events) SetBroadcaster(b port.Broadcaster) {
	e.broadcaster = b
}

func (e *Events) broadcast(channel string, env *domain.Envelope) {
	if e.broadcaster == nil {
		slog.Warn("broadcast skipped, hub not wired", slog.String("channel", channel), slog.String("type", env.Type))
		return
	}
	e.broadcaster.BroadcastToChannel(channel, env)
}

// EmitProductUpdate announces a created or updated product on the products
// channel and the product's own channel.
func (e *Events) EmitProductUpdate(productID string, data any) {
	payload := domain.ProductUpdate{ProductID: productID, Data: data}
	e.broadcast(domain.ChannelProducts, &domain.Envelope{Type: domain.TypeProductUpdated, Payload: payload})
	e.broadcast(domain.ProductChannel(productID), &domain.Envelope{Type: domain.TypeProductUpdated, Payload: payload})
}

// EmitProductDeleted announces a product removal.
func (e *Events) EmitProductDeleted(productID string) {
	payload := domain.ProductDeletion{ProductID: productID}
	e.broadcast(domain.ChannelProducts, &domain.Envelope{Type: domain.TypeProductDeleted, Payload: payload})
	e.broadcast(domain.ProductChannel(productID), &domain.Envelope{Type: domain.TypeProductDeleted, Payload: payload})
}

// EmitStockChanged announces a stock level change. Breaching the minimum
// threshold additionally synthesizes a low-stock alert.
func (e *Events) EmitStockChanged(productID, productName string, stock, minStock int) {
	payload := domain.StockChange{
		ProductID:   productID,
		ProductName: productName,
		Stock:       stock,
		MinStock:    minStock,
		IsLowStock:  stock <= minStock,
	}
	e.broadcast(domain.ChannelProducts, &domain.Envelope{Type: domain.TypeStockChanged, Payload: payload})
	e.broadcast(domain.ProductChannel(productID), &domain.Envelope{Type: domain.TypeStockChanged, Payload: payload})

	if payload.IsLowStock {
		e.EmitNewAlert(domain.NewLowStockAlert(productID, productName, stock, minStock))
	}
}

// EmitDashboardUpdate refreshes the metrics snapshot and announces it on the
// dashboard channel.
func (e *Events) EmitDashboardUpdate(m domain.DashboardMetrics) {
	if e.snapshots != nil {
		e.snapshots.SetDashboardMetrics(m)
	}
	e.broadcast(domain.ChannelDashboard, &domain.Envelope{Type: domain.TypeMetricsUpdated, Payload: map[string]any{"metrics": m}})
}

// EmitNewAlert records the alert and announces it on the alerts channel.
// Critical and error severities are cross-posted to everyone as an urgent
// system alert.
func (e *Events) EmitNewAlert(alert domain.Alert) {
	alert.Severity = domain.NormalizeSeverity(string(alert.Severity))
	if e.snapshots != nil {
		e.snapshots.RecordAlert(alert)
	}
	e.broadcast(domain.ChannelAlerts, &domain.Envelope{Type: domain.TypeAlertCreated, Payload: alert})
	if alert.Severity.Urgent() {
		e.broadcastToAll(&domain.Envelope{Type: domain.TypeUrgentAlert, Payload: alert})
	}
}

// EmitAlertUpdate announces a mutation of an existing alert, e.g. dismissal.
func (e *Events) EmitAlertUpdate(alertID string, update map[string]any) {
	payload := map[string]any{"id": alertID}
	for k, v := range update {
		if k == "id" {
			continue
		}
		payload[k] = v
	}
	e.broadcast(domain.ChannelAlerts, &domain.Envelope{Type: domain.TypeAlertUpdated, Payload: payload})
}

// EmitNewOrder announces a created order.
func (e *Events) EmitNewOrder(order any) {
	e.broadcast(domain.ChannelOrders, &domain.Envelope{Type: domain.TypeOrderCreated, Payload: order})
}

// EmitOrderStatusChanged announces an order status transition.
func (e *Events) EmitOrderStatusChanged(orderID, status, previousStatus string) {
	payload := domain.OrderStatusChange{ID: orderID, Status: status, PreviousStatus: previousStatus}
	e.broadcast(domain.ChannelOrders, &domain.Envelope{Type: domain.TypeOrderStatusChanged, Payload: payload})
}

// EmitNewRecommendation announces a freshly generated recommendation.
func (e *Events) EmitNewRecommendation(rec any) {
	e.broadcast(domain.ChannelRecommendations, &domain.Envelope{Type: domain.TypeRecommendationNew, Payload: rec})
}

// EmitSystemMaintenance announces scheduled maintenance to every connection.
func (e *Events) EmitSystemMaintenance(info any) {
	e.broadcastToAll(&domain.Envelope{Type: domain.TypeSystemMaintenance, Payload: info})
}

func (e *Events) broadcastToAll(env *domain.Envelope) {
	if e.broadcaster == nil {
		slog.Warn("broadcast skipped, hub not wired", slog.String("channel", domain.ChannelGlobal), slog.String("type", env.Type))
		return
	}
	e.broadcaster.BroadcastToAll(env)
}

// SendDashboardMetrics pushes the current metrics snapshot to a single
// connection, outside the broadcast path.
func (e *Events) SendDashboardMetrics(r port.Receiver) {
	if r == nil {
		return
	}
	var m domain.DashboardMetrics
	if e.snapshots != nil {
		m = e.snapshots.DashboardMetrics()
	}
	r.SendEnvelope(&domain.Envelope{
		Channel:   domain.ChannelDashboard,
		Type:      domain.TypeMetricsUpdated,
		Payload:   map[string]any{"metrics": m},
		Timestamp: time.Now().UTC(),
	})
}

// SendCurrentAlerts pushes the recent alerts list to a single connection.
func (e *Events) SendCurrentAlerts(r port.Receiver) {
	if r == nil {
		return
	}
	var alerts []domain.Alert
	if e.snapshots != nil {
		alerts = e.snapshots.CurrentAlerts()
	}
	r.SendEnvelope(&domain.Envelope{
		Channel:   domain.ChannelAlerts,
		Type:      domain.TypeAlertsCurrent,
		Payload:   map[string]any{"alerts": alerts},
		Timestamp: time.Now().UTC(),
	})
}

// ConnectionStats reports the hub's live connection registry.
func (e *Events) ConnectionStats() domain.ConnectionStats {
	if e.broadcaster == nil {
		return domain.ConnectionStats{ConnectedUsers: []domain.ConnectionInfo{}}
	}
	return e.broadcaster.Stats()
}
