package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/usecase"
	"github.com/omnix-ai/realtime-gateway/internal/shared/auth"
	"github.com/omnix-ai/realtime-gateway/internal/shared/httputil"
)

// NewStatsHandler exposes GET /ws/stats: the live connection registry for
// operational visibility, gated behind the same JWT as the socket itself.
func NewStatsHandler(validator auth.TokenValidator, events *usecase.Events) echo.HandlerFunc {
	mapper := httputil.NewErrorMapper().
		WithMapping(auth.ErrMissingToken, http.StatusBadRequest, "missing token").
		WithMapping(auth.ErrInvalidToken, http.StatusUnauthorized, "invalid or expired token")

	return func(c echo.Context) error {
		token := auth.ExtractToken(c.Request(), "token")
		if _, err := validator.Validate(token); err != nil {
			info := mapper.Map(err)
			return echo.NewHTTPError(info.Status, info.Message)
		}
		return c.JSON(http.StatusOK, events.ConnectionStats())
	}
}
