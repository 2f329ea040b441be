package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/usecase"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/domain"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/infrastructure"
	"github.com/omnix-ai/realtime-gateway/internal/shared/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type connectionAck struct {
	Status    string    `json:"status"`
	UserID    string    `json:"userId"`
	Channels  []string  `json:"channels"`
	Timestamp time.Time `json:"timestamp"`
}

// NewWebsocketHandler exposes GET /ws. The socket is upgraded first so a
// failed admission can still deliver an error frame before the close, which
// is what the frontend expects.
func NewWebsocketHandler(hub *infrastructure.Hub, validator auth.TokenValidator, events *usecase.Events, sendBuffer int) echo.HandlerFunc {
	commands := infrastructure.NewCommandProcessor(hub, events)

	return func(c echo.Context) error {
		peerIP := c.RealIP()
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws upgrade failed", slog.String("ip", peerIP), slog.String("reqID", requestID), slog.Any("error", err))
			return err
		}

		token := auth.ExtractToken(c.Request(), "token")
		claims, err := validator.Validate(token)
		if err != nil {
			slog.Warn("ws authentication failed", slog.String("ip", peerIP), slog.String("reqID", requestID), slog.Any("error", err))
			reject(conn, "Invalid or expired token")
			return nil
		}

		userID := claims.UserID()
		client := infrastructure.NewClient(hub, conn, uuid.NewString(), userID, claims.Email, claims.Role, sendBuffer, commands)
		hub.Register(client)

		channels := domain.DefaultChannels(userID)
		for _, channel := range channels {
			hub.Join(client, channel)
		}

		go client.WritePump()
		go client.ReadPump()

		client.SendFrame(domain.Frame{Event: domain.EventConnection, Data: connectionAck{
			Status:    "connected",
			UserID:    userID,
			Channels:  channels,
			Timestamp: time.Now().UTC(),
		}})
		events.SendDashboardMetrics(client)

		slog.Info("ws client connected", slog.String("connId", client.ID()), slog.String("userId", userID), slog.String("email", claims.Email), slog.String("ip", peerIP), slog.String("reqID", requestID))
		return nil
	}
}

// reject delivers a single authentication_failed error frame and forcibly
// closes the socket. The connection never reaches the hub.
func reject(conn *websocket.Conn, message string) {
	frame := domain.Frame{Event: domain.EventError, Data: domain.ErrorPayload{
		Type:    domain.ErrorAuthenticationFailed,
		Message: message,
	}}
	deadline := time.Now().Add(5 * time.Second)
	if data, err := json.Marshal(frame); err == nil {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed"), deadline)
	_ = conn.Close()
}
