package domain

import "encoding/json"

// Inbound client message names. The uppercase forms match the protocol the
// frontend already speaks.
const (
	CommandSubscribe          = "subscribe"
	CommandUnsubscribe        = "unsubscribe"
	CommandSubscribeProduct   = "SUBSCRIBE_PRODUCT"
	CommandUnsubscribeProduct = "UNSUBSCRIBE_PRODUCT"
	CommandSubscribeAlerts    = "SUBSCRIBE_ALERTS"
	CommandGetDashboard       = "GET_DASHBOARD_METRICS"
	CommandPing               = "ping"
)

// Command is the raw inbound frame read from a client socket.
type Command struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ChannelPayload is the data object of subscribe/unsubscribe commands.
type ChannelPayload struct {
	Channel string `json:"channel"`
}

// ProductPayload is the data object of the product subscription commands.
type ProductPayload struct {
	ProductID string `json:"productId"`
}
