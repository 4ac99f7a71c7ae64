package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/interfaces/http/middleware"
	"sprintos.backend/internal/interfaces/http/response"
	"sprintos.backend/internal/usecases"
)

type SummaryService interface {
	GenerateSummary(ctx context.Context, scope entities.TeamScope) (*entities.SummaryResult, error)
	LatestSummary(ctx context.Context, scope entities.TeamScope) (*entities.AISummary, error)
	ConvertToTask(ctx context.Context, scope entities.TeamScope, actionItem string) (*entities.Task, error)
}

// SummaryHandler handles the note summary pipeline
type SummaryHandler struct {
	summaryUsecase SummaryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaryUsecase SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryUsecase: summaryUsecase}
}

// GenerateSummary summarizes every note of the team. success=false means the
// fallback text was stored because the AI call failed.
// POST /api/v1/teams/:teamId/summaries
func (h *SummaryHandler) GenerateSummary(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	result, err := h.summaryUsecase.GenerateSummary(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// LatestSummary
// GET /api/v1/teams/:teamId/summaries/latest
func (h *SummaryHandler) LatestSummary(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	summary, err := h.summaryUsecase.LatestSummary(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// ConvertToTask turns one action item into a pending task
// POST /api/v1/teams/:teamId/summaries/convert
func (h *SummaryHandler) ConvertToTask(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	var input entities.ConvertActionItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Action item is required"))
		return
	}

	task, err := h.summaryUsecase.ConvertToTask(c.Request.Context(), scope, input.ActionItem)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"task": task})
}

// ParseActionItems runs the action item parser over arbitrary text
// POST /api/v1/action-items/parse
func (h *SummaryHandler) ParseActionItems(c *gin.Context) {
	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Text is required"))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"actionItems": usecases.ParseActionItems(input.Text)})
}
