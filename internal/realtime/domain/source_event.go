package domain

import "encoding/json"

// SourceEvent is a domain event published by the OMNIX backend services and
// consumed from Kafka. Topic is the broker topic the event arrived on; the
// handlers translate entity/action pairs into emitter calls.
type SourceEvent struct {
	Entity     string          `json:"entity"`
	Action     string          `json:"action"`
	ResourceID string          `json:"resourceId"`
	Data       json.RawMessage `json:"data"`
	Topic      string          `json:"-"`
}
