package repositories

import (
	"context"

	"github.com/google/uuid"
	"sprintos.backend/internal/domain/entities"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Note, error)
	// ListByTeam returns notes newest first.
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*entities.Note, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SummaryRepository interface {
	Create(ctx context.Context, summary *entities.AISummary) error
	GetLatestByTeam(ctx context.Context, teamID uuid.UUID) (*entities.AISummary, error)
}
