package domain

import "time"

// ConnectionInfo describes one live connection for diagnostics. It is never
// used for routing decisions.
type ConnectionInfo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// ConnectionStats is the operational snapshot returned by the hub.
type ConnectionStats struct {
	TotalConnections int              `json:"totalConnections"`
	ConnectedUsers   []ConnectionInfo `json:"connectedUsers"`
}
