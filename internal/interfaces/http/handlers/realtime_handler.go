package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/infrastructure/realtime"
	"sprintos.backend/internal/interfaces/http/middleware"
	"sprintos.backend/internal/interfaces/http/response"
	"sprintos.backend/pkg/logger"
)

// RealtimeHandler upgrades team-scoped requests to change-feed websockets
type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewRealtimeHandler creates a realtime handler. allowedOrigins follows the
// CORS setting: "*" accepts any origin, requests without Origin are always accepted.
func NewRealtimeHandler(hub *realtime.Hub, allowedOrigins []string) *RealtimeHandler {
	allowAll := lo.Contains(allowedOrigins, "*")
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowAll || lo.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Subscribe streams changes of one table for the scoped team
// GET /api/v1/teams/:teamId/realtime?table=tasks
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	table := c.Query("table")
	if !entities.IsObservableTable(table) {
		response.Error(c, domainerrors.BadRequest("Unknown table"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already wrote the HTTP error
		logger.Warn(c.Request.Context(), "Websocket upgrade failed", zap.Error(err))
		return
	}

	realtime.NewClient(conn, h.hub, table, scope.TeamID, scope.UserID).Serve(c.Request.Context())
}
