package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/infrastructure/models"
	"sprintos.backend/pkg/utils"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	if note.ID == uuid.Nil {
		note.ID = utils.GenerateUUIDv7()
	}
	m := &models.Note{
		ID:        note.ID,
		TeamID:    note.TeamID,
		Content:   note.Content,
		CreatedBy: note.CreatedBy,
		CreatedAt: note.CreatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	note.CreatedAt = m.CreatedAt
	note.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Note, error) {
	var m models.Note
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *NoteRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*entities.Note, error) {
	var ms []models.Note
	if err := GetDB(ctx, r.db).
		Where("team_id = ?", teamID).
		Order("created_at DESC, id DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.Note, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *NoteRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	result := GetDB(ctx, r.db).
		Model(&models.Note{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":    content,
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

func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.Note{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) toEntity(m *models.Note) *entities.Note {
	return &entities.Note{
		ID:        m.ID,
		TeamID:    m.TeamID,
		Content:   m.Content,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// SummaryRepository stores generated AI summaries
type SummaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) Create(ctx context.Context, summary *entities.AISummary) error {
	if summary.ID == uuid.Nil {
		summary.ID = utils.GenerateUUIDv7()
	}
	items := summary.ActionItems
	if items == nil {
		items = []string{}
	}
	m := &models.AISummary{
		ID:          summary.ID,
		TeamID:      summary.TeamID,
		SummaryText: summary.SummaryText,
		ActionItems: items,
		CreatedBy:   summary.CreatedBy,
		CreatedAt:   summary.CreatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	summary.ActionItems = items
	summary.CreatedAt = m.CreatedAt
	return nil
}

func (r *SummaryRepository) GetLatestByTeam(ctx context.Context, teamID uuid.UUID) (*entities.AISummary, error) {
	var m models.AISummary
	if err := GetDB(ctx, r.db).
		Where("team_id = ?", teamID).
		Order("created_at DESC, id DESC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	items := []string(m.ActionItems)
	if items == nil {
		items = []string{}
	}
	return &entities.AISummary{
		ID:          m.ID,
		TeamID:      m.TeamID,
		SummaryText: m.SummaryText,
		ActionItems: items,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}, nil
}
