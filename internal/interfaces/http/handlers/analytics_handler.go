package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/interfaces/http/middleware"
	"sprintos.backend/internal/interfaces/http/response"
)

type AnalyticsService interface {
	TeamAnalytics(ctx context.Context, scope entities.TeamScope) (*entities.TeamAnalytics, error)
	Dashboard(ctx context.Context, scope entities.TeamScope) (*entities.Dashboard, error)
}

type AnalyticsHandler struct {
	analytics AnalyticsService
}

func NewAnalyticsHandler(analytics AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GET /api/v1/teams/:teamId/analytics
func (h *AnalyticsHandler) TeamAnalytics(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	result, err := h.analytics.TeamAnalytics(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"analytics": result})
}

// GET /api/v1/teams/:teamId/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	dashboard, err := h.analytics.Dashboard(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, dashboard)
}
