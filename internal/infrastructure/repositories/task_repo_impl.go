package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/infrastructure/models"
	"sprintos.backend/pkg/utils"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *entities.Task) error {
	if task.ID == uuid.Nil {
		task.ID = utils.GenerateUUIDv7()
	}
	if task.Status == "" {
		task.Status = entities.TaskStatusPending
	}
	m := r.toModel(task)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	task.CreatedAt = m.CreatedAt
	task.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	var m models.Task
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *TaskRepository) ListByTeam(ctx context.Context, teamID uuid.UUID, filter entities.TaskFilter) ([]*entities.Task, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.Task{}).Where("team_id = ?", teamID)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var ms []models.Task
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.Task, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *entities.Task) error {
	m := r.toModel(task)
	updates := map[string]interface{}{
		"title":       m.Title,
		"description": m.Description,
		"status":      m.Status,
		"assigned_to": m.AssignedTo,
		"deadline":    m.Deadline,
		"updated_at":  time.Now().UTC(),
	}

	result := GetDB(ctx, r.db).
		Model(&models.Task{}).
		Where("id = ?", task.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TaskStatus) error {
	result := GetDB(ctx, r.db).
		Model(&models.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) toEntity(m *models.Task) *entities.Task {
	assignee := null.String{}
	if m.AssignedTo != nil {
		assignee = null.StringFrom(m.AssignedTo.String())
	}
	return &entities.Task{
		ID:          m.ID,
		TeamID:      m.TeamID,
		Title:       m.Title,
		Description: m.Description,
		Status:      entities.TaskStatus(m.Status),
		AssignedTo:  assignee,
		Deadline:    null.TimeFromPtr(m.Deadline),
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *TaskRepository) toModel(e *entities.Task) *models.Task {
	var assignee *uuid.UUID
	if e.AssignedTo.Valid {
		if id, err := uuid.Parse(e.AssignedTo.String); err == nil {
			assignee = &id
		}
	}
	return &models.Task{
		ID:          e.ID,
		TeamID:      e.TeamID,
		Title:       e.Title,
		Description: e.Description,
		Status:      string(e.Status),
		AssignedTo:  assignee,
		Deadline:    e.Deadline.Ptr(),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
