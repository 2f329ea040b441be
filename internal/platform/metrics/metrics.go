package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections tracks the number of live websocket connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "omnix",
		Subsystem: "realtime",
		Name:      "active_connections",
		Help:      "Number of live websocket connections.",
	})

	// BroadcastsTotal counts channel broadcasts by message type.
	BroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "omnix",
		Subsystem: "realtime",
		Name:      "broadcasts_total",
		Help:      "Channel broadcasts issued, by message type.",
	}, []string{"type"})

	// CommandsTotal counts inbound client commands by event name.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "omnix",
		Subsystem: "realtime",
		Name:      "commands_total",
		Help:      "Inbound client commands processed, by event name.",
	}, []string{"command"})

	// DetachedSlowConsumers counts clients dropped because their send buffer
	// stayed full.
	DetachedSlowConsumers = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "omnix",
		Subsystem: "realtime",
		Name:      "detached_slow_consumers_total",
		Help:      "Clients detached because their send buffer was full.",
	})
)
