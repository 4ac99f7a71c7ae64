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

type TeamMemberRepository struct {
	db *gorm.DB
}

func NewTeamMemberRepository(db *gorm.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

func (r *TeamMemberRepository) Create(ctx context.Context, member *entities.TeamMember) error {
	if member.ID == uuid.Nil {
		member.ID = utils.GenerateUUIDv7()
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}
	m := &models.TeamMember{
		ID:       member.ID,
		TeamID:   member.TeamID,
		UserID:   member.UserID,
		Role:     string(member.Role),
		LastSeen: member.LastSeen.Ptr(),
		JoinedAt: member.JoinedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *TeamMemberRepository) Get(ctx context.Context, teamID, userID uuid.UUID) (*entities.TeamMember, error) {
	var m models.TeamMember
	if err := GetDB(ctx, r.db).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByTeam returns organizers first, then everyone else by join time.
func (r *TeamMemberRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*entities.TeamMember, error) {
	var rows []models.TeamMemberWithUser
	if err := GetDB(ctx, r.db).
		Table("team_members").
		Select("team_members.*, COALESCE(users.name, '') AS user_name, COALESCE(users.email, '') AS user_email").
		Joins("LEFT JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ?", teamID).
		Order("CASE WHEN team_members.role = 'organizer' THEN 0 ELSE 1 END, team_members.joined_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.TeamMember, 0, len(rows))
	for i := range rows {
		member := r.toEntity(&rows[i].TeamMember)
		member.UserName = rows[i].UserName
		member.UserEmail = rows[i].UserEmail
		items = append(items, member)
	}
	return items, nil
}

func (r *TeamMemberRepository) UpdateRole(ctx context.Context, teamID, userID uuid.UUID, role entities.MemberRole) error {
	result := GetDB(ctx, r.db).
		Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", string(role))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TeamMemberRepository) TouchLastSeen(ctx context.Context, teamID, userID uuid.UUID, at time.Time) error {
	result := GetDB(ctx, r.db).
		Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("last_seen", at.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TeamMemberRepository) ListSeenBetween(ctx context.Context, from, to time.Time) ([]*entities.TeamMember, error) {
	var ms []models.TeamMember
	if err := GetDB(ctx, r.db).
		Where("last_seen >= ? AND last_seen < ?", from.UTC(), to.UTC()).
		Order("team_id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.TeamMember, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *TeamMemberRepository) toEntity(m *models.TeamMember) *entities.TeamMember {
	return &entities.TeamMember{
		ID:       m.ID,
		TeamID:   m.TeamID,
		UserID:   m.UserID,
		Role:     entities.MemberRole(m.Role),
		LastSeen: null.TimeFromPtr(m.LastSeen),
		JoinedAt: m.JoinedAt,
	}
}
