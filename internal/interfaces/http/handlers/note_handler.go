package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/interfaces/http/middleware"
	"sprintos.backend/internal/interfaces/http/response"
)

type NoteService interface {
	CreateNote(ctx context.Context, scope entities.TeamScope, content string) (*entities.Note, error)
	ListNotes(ctx context.Context, scope entities.TeamScope) ([]*entities.Note, error)
	UpdateNote(ctx context.Context, scope entities.TeamScope, id uuid.UUID, content string) (*entities.Note, error)
	DeleteNote(ctx context.Context, scope entities.TeamScope, id uuid.UUID) error
}

// NoteHandler handles meeting note endpoints
type NoteHandler struct {
	noteUsecase NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteUsecase NoteService) *NoteHandler {
	return &NoteHandler{noteUsecase: noteUsecase}
}

// CreateNote
// POST /api/v1/teams/:teamId/notes
func (h *NoteHandler) CreateNote(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	var input entities.NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Note content is required"))
		return
	}

	note, err := h.noteUsecase.CreateNote(c.Request.Context(), scope, input.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"note": note})
}

// ListNotes
// GET /api/v1/teams/:teamId/notes
func (h *NoteHandler) ListNotes(c *gin.Context) {
	scope, ok := middleware.GetTeamScope(c)
	if !ok {
		response.Error(c, domainerrors.Forbidden("Team scope missing"))
		return
	}

	notes, err := h.noteUsecase.ListNotes(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notes": notes})
}

// UpdateNote edits a note. Author only.
// PUT /api/v1/teams/:teamId/notes/:id
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	scope, id, ok := scopeAndID(c, "Invalid note ID")
	if !ok {
		return
	}

	var input entities.NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Note content is required"))
		return
	}

	note, err := h.noteUsecase.UpdateNote(c.Request.Context(), scope, id, input.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"note": note})
}

// DeleteNote removes a note. Author only.
// DELETE /api/v1/teams/:teamId/notes/:id
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	scope, id, ok := scopeAndID(c, "Invalid note ID")
	if !ok {
		return
	}

	if err := h.noteUsecase.DeleteNote(c.Request.Context(), scope, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
