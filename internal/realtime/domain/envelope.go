package domain

import "time"

// Envelope is the uniform shape for every broadcast message delivered to
// websocket clients. The hub stamps Timestamp at broadcast time, so the value
// is always at or after the moment the triggering domain event occurred.
type Envelope struct {
	Channel   string    `json:"channel"`
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Frame is the outer wire message. Broadcast envelopes travel under the
// "message" event; acknowledgements and errors use their own event names and
// carry an unwrapped data object.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Outbound event names.
const (
	EventMessage      = "message"
	EventConnection   = "connection"
	EventSubscribed   = "subscribed"
	EventUnsubscribed = "unsubscribed"
	EventPong         = "pong"
	EventError        = "error"
)

// ErrorPayload is the data object of an "error" frame.
type ErrorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Error reason codes surfaced to clients.
const (
	ErrorAuthenticationFailed = "authentication_failed"
	ErrorInvalidChannel       = "invalid_channel"
	ErrorInvalidPayload       = "invalid_payload"
	ErrorUnauthorized         = "unauthorized"
	ErrorInternal             = "internal_error"
)
