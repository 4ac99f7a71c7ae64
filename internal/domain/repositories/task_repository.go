package repositories

import (
	"context"

	"github.com/google/uuid"
	"sprintos.backend/internal/domain/entities"
)

type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	// ListByTeam returns the page of tasks newest first and the total matching count.
	ListByTeam(ctx context.Context, teamID uuid.UUID, filter entities.TaskFilter) ([]*entities.Task, int64, error)
	Update(ctx context.Context, task *entities.Task) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TaskStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}
