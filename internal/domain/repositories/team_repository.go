package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"sprintos.backend/internal/domain/entities"
)

type TeamRepository interface {
	Create(ctx context.Context, team *entities.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Team, error)
	GetByInviteCode(ctx context.Context, code string) (*entities.Team, error)
	// UpdateInviteCode returns ErrAlreadyExists when the code collides with another team.
	UpdateInviteCode(ctx context.Context, id uuid.UUID, code string) error
	// ListByUser returns the user's teams ordered by joined_at, then team id.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.MyTeam, error)
}

// TeamMemberRepository manages (team, user) memberships
type TeamMemberRepository interface {
	// Create returns ErrAlreadyExists when the membership already exists.
	Create(ctx context.Context, member *entities.TeamMember) error
	Get(ctx context.Context, teamID, userID uuid.UUID) (*entities.TeamMember, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*entities.TeamMember, error)
	UpdateRole(ctx context.Context, teamID, userID uuid.UUID, role entities.MemberRole) error
	TouchLastSeen(ctx context.Context, teamID, userID uuid.UUID, at time.Time) error
	// ListSeenBetween returns members whose last_seen lies in [from, to).
	ListSeenBetween(ctx context.Context, from, to time.Time) ([]*entities.TeamMember, error)
}
