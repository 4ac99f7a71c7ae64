package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/interfaces/http/middleware"
	"sprintos.backend/internal/interfaces/http/response"
	"sprintos.backend/pkg/utils"
	"sprintos.backend/pkg/validation"
)

type TaskService interface {
	CreateTask(ctx context.Context, scope entities.TeamScope, input *entities.TaskInput) (*entities.Task, error)
	ListTasks(ctx context.Context, scope entities.TeamScope, filter entities.TaskFilter) ([]*entities.Task, int64, error)
	GetTask(ctx context.Context, scope entities.TeamScope, id uuid.UUID) (*entities.Task, error)
	UpdateTask(ctx context.Context, scope entities.TeamScope, id uuid.UUID, input *entities.TaskInput) (*entities.Task, error)
	UpdateTaskStatus(ctx context.Context, scope entities.TeamScope, id uuid.UUID, status entities.TaskStatus) (*entities.Task, error)
	DeleteTask(ctx context.Context, scope entities.TeamScope, id uuid.UUID) error
}

// TaskHandler handles task endpoints of the scoped team
type TaskHandler struct {
	taskUsecase TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskUsecase TaskService) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase}
}

// CreateTask creates a task
// POST /api/v1/teams/:teamId/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	var input entities.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(validation.FormatValidationError(err)))
		return
	}

	task, err := h.taskUsecase.CreateTask(c.Request.Context(), scope, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"task": task})
}

// ListTasks lists tasks newest first. limit=0 (the default) returns every task.
// GET /api/v1/teams/:teamId/tasks?status=&page=&limit=
func (h *TaskHandler) ListTasks(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	status := entities.TaskStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		response.Error(c, domainerrors.BadRequest("Invalid task status"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	pagination := utils.GetPaginationParams(page, limit)

	tasks, total, err := h.taskUsecase.ListTasks(c.Request.Context(), scope, entities.TaskFilter{
		Status: status,
		Limit:  pagination.Limit,
		Offset: pagination.CalculateOffset(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tasks":      tasks,
		"pagination": utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

// GetTask returns one task
// GET /api/v1/teams/:teamId/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	scope, id, ok := scopeAndID(c, "Invalid task ID")
	if !ok {
		return
	}

	task, err := h.taskUsecase.GetTask(c.Request.Context(), scope, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// UpdateTask replaces a task's editable fields
// PUT /api/v1/teams/:teamId/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	scope, id, ok := scopeAndID(c, "Invalid task ID")
	if !ok {
		return
	}

	var input entities.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(validation.FormatValidationError(err)))
		return
	}

	task, err := h.taskUsecase.UpdateTask(c.Request.Context(), scope, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// UpdateTaskStatus changes only the status
// PATCH /api/v1/teams/:teamId/tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	scope, id, ok := scopeAndID(c, "Invalid task ID")
	if !ok {
		return
	}

	var input entities.UpdateTaskStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(validation.FormatValidationError(err)))
		return
	}

	task, err := h.taskUsecase.UpdateTaskStatus(c.Request.Context(), scope, id, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// DeleteTask removes a task
// DELETE /api/v1/teams/:teamId/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	scope, id, ok := scopeAndID(c, "Invalid task ID")
	if !ok {
		return
	}

	if err := h.taskUsecase.DeleteTask(c.Request.Context(), scope, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// scopeAndID reads the team scope and the :id param, writing the error response itself
func scopeAndID(c *gin.Context, invalidMsg string) (entities.TeamScope, uuid.UUID, bool) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return entities.TeamScope{}, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest(invalidMsg))
		return entities.TeamScope{}, uuid.Nil, false
	}
	return scope, id, true
}
