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

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, team *entities.Team) error {
	if team.ID == uuid.Nil {
		team.ID = utils.GenerateUUIDv7()
	}
	m := r.toModel(team)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	team.CreatedAt = m.CreatedAt
	team.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	var m models.Team
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByInviteCode expects an already normalised code.
func (r *TeamRepository) GetByInviteCode(ctx context.Context, code string) (*entities.Team, error) {
	var m models.Team
	if err := GetDB(ctx, r.db).Where("invite_code = ?", code).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *TeamRepository) UpdateInviteCode(ctx context.Context, id uuid.UUID, code string) error {
	result := GetDB(ctx, r.db).
		Model(&models.Team{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"invite_code": code,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.MyTeam, error) {
	var rows []models.MyTeamRow
	if err := GetDB(ctx, r.db).
		Table("teams").
		Select("teams.*, team_members.role AS role, team_members.joined_at AS joined_at").
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ? AND teams.deleted_at IS NULL", userID).
		Order("team_members.joined_at ASC, teams.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.MyTeam, 0, len(rows))
	for i := range rows {
		items = append(items, &entities.MyTeam{
			Team:     *r.toEntity(&rows[i].Team),
			Role:     entities.MemberRole(rows[i].Role),
			JoinedAt: rows[i].JoinedAt,
		})
	}
	return items, nil
}

func (r *TeamRepository) toEntity(m *models.Team) *entities.Team {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}
	return &entities.Team{
		ID:          m.ID,
		Name:        m.Name,
		ProjectName: m.ProjectName,
		InviteCode:  m.InviteCode,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}

func (r *TeamRepository) toModel(e *entities.Team) *models.Team {
	return &models.Team{
		ID:          e.ID,
		Name:        e.Name,
		ProjectName: e.ProjectName,
		InviteCode:  e.InviteCode,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
