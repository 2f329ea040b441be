package port

import (
	"context"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
)

// Broadcaster is the contract the events service uses to reach websocket
// clients. The hub implements it.
type Broadcaster interface {
	// BroadcastToChannel stamps the envelope's channel and timestamp and
	// delivers it to every connection currently joined to the channel.
	// Broadcasting to an empty channel is a no-op.
	BroadcastToChannel(channel string, env *domain.Envelope)
	// BroadcastToAll delivers on the global channel, which every admitted
	// connection is joined to.
	BroadcastToAll(env *domain.Envelope)
	// SendToUser delivers only to the given user's own connections.
	SendToUser(userID string, env *domain.Envelope)
	// Stats reports the live connection registry for diagnostics.
	Stats() domain.ConnectionStats
}

// Receiver is a single connection that can accept a direct envelope push,
// outside any channel broadcast.
type Receiver interface {
	SendEnvelope(env *domain.Envelope)
}

// SnapshotStore holds the latest dashboard metrics and recent alerts served
// to newly admitted or alert-subscribing connections.
type SnapshotStore interface {
	DashboardMetrics() domain.DashboardMetrics
	SetDashboardMetrics(m domain.DashboardMetrics)
	CurrentAlerts() []domain.Alert
	RecordAlert(a domain.Alert)
}

// TopicHandler consumes domain events arriving on one broker topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, ev *domain.SourceEvent) error
}
