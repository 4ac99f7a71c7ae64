package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/domain/repositories"
	"sprintos.backend/pkg/crypto"
	"sprintos.backend/pkg/logger"
)

// MaxInviteCodeAttempts bounds how many fresh codes are tried before giving up
const MaxInviteCodeAttempts = 5

// DefaultPresenceWindow is how recently a member must have been seen to count as active
const DefaultPresenceWindow = 5 * time.Minute

var generateInviteCode = func() (string, error) {
	return crypto.GenerateInviteCode(entities.InviteCodePrefix)
}

// ActiveTeamStore remembers the team each user last switched to
type ActiveTeamStore interface {
	Set(ctx context.Context, userID, teamID uuid.UUID) error
	Get(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)
}

// TeamUsecase manages teams, memberships and the active-team selection
type TeamUsecase struct {
	teamRepo       repositories.TeamRepository
	memberRepo     repositories.TeamMemberRepository
	uow            repositories.UnitOfWork
	activeTeams    ActiveTeamStore
	publisher      ChangePublisher
	presenceWindow time.Duration
	now            func() time.Time
}

// NewTeamUsecase creates a new team usecase. activeTeams may be nil.
func NewTeamUsecase(
	teamRepo repositories.TeamRepository,
	memberRepo repositories.TeamMemberRepository,
	uow repositories.UnitOfWork,
	activeTeams ActiveTeamStore,
	publisher ChangePublisher,
) *TeamUsecase {
	return &TeamUsecase{
		teamRepo:       teamRepo,
		memberRepo:     memberRepo,
		uow:            uow,
		activeTeams:    activeTeams,
		publisher:      publisher,
		presenceWindow: DefaultPresenceWindow,
		now:            time.Now,
	}
}

// SetPresenceWindow overrides DefaultPresenceWindow
func (u *TeamUsecase) SetPresenceWindow(d time.Duration) {
	if d > 0 {
		u.presenceWindow = d
	}
}

// ListMyTeams returns the user's teams ordered by joined_at, then team id
func (u *TeamUsecase) ListMyTeams(ctx context.Context, userID uuid.UUID) ([]*entities.MyTeam, error) {
	return u.teamRepo.ListByUser(ctx, userID)
}

// CreateTeam creates a team with a fresh invite code and makes the caller its organizer
func (u *TeamUsecase) CreateTeam(ctx context.Context, userID uuid.UUID, input *entities.CreateTeamInput) (*entities.CreateTeamResult, error) {
	name := strings.TrimSpace(input.Name)
	project := strings.TrimSpace(input.ProjectName)
	if name == "" || project == "" {
		return nil, domainerrors.BadRequest("team name and project name are required")
	}

	var team *entities.Team
	var member *entities.TeamMember
	var err error
	for attempt := 0; attempt < MaxInviteCodeAttempts; attempt++ {
		team, member, err = u.insertTeam(ctx, userID, name, project)
		if !errors.Is(err, errInviteCodeTaken) {
			break
		}
		logger.Debug(ctx, "Invite code taken at insert, retrying", zap.Int("attempt", attempt+1))
	}
	if errors.Is(err, errInviteCodeTaken) {
		return nil, domainerrors.InternalServerError("could not allocate a unique invite code")
	}
	if err != nil {
		return nil, err
	}

	notify(ctx, u.publisher, entities.TableTeams, entities.ChangeInsert, team.ID, team.ID)
	notify(ctx, u.publisher, entities.TableTeamMembers, entities.ChangeInsert, team.ID, member.ID)

	if u.activeTeams != nil {
		if err := u.activeTeams.Set(ctx, userID, team.ID); err != nil {
			logger.Warn(ctx, "Failed to store active team", zap.Error(err))
		}
	}

	logger.Info(ctx, "Team created", zap.String("team_id", team.ID.String()), zap.String("user_id", userID.String()))
	return &entities.CreateTeamResult{Team: team, InviteCode: team.InviteCode}, nil
}

// errInviteCodeTaken reports a code claimed by another team between the lookup and the insert
var errInviteCodeTaken = errors.New("invite code taken")

// insertTeam creates the team and its organizer membership in one unit of work
func (u *TeamUsecase) insertTeam(ctx context.Context, userID uuid.UUID, name, project string) (*entities.Team, *entities.TeamMember, error) {
	var team *entities.Team
	var member *entities.TeamMember
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		code, err := drawInviteCode(txCtx, u.teamRepo, "")
		if err != nil {
			return err
		}

		team = &entities.Team{
			Name:        name,
			ProjectName: project,
			InviteCode:  code,
			CreatedBy:   userID,
		}
		if err := u.teamRepo.Create(txCtx, team); err != nil {
			if errors.Is(err, domainerrors.ErrAlreadyExists) {
				return errInviteCodeTaken
			}
			return err
		}

		member = &entities.TeamMember{
			TeamID: team.ID,
			UserID: userID,
			Role:   entities.RoleOrganizer,
		}
		return u.memberRepo.Create(txCtx, member)
	})
	if err != nil {
		return nil, nil, err
	}
	return team, member, nil
}

// drawInviteCode draws codes until one is not in use and differs from current
func drawInviteCode(ctx context.Context, teams repositories.TeamRepository, current string) (string, error) {
	for attempt := 0; attempt < MaxInviteCodeAttempts; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return "", err
		}
		if code == current {
			continue
		}

		_, err = teams.GetByInviteCode(ctx, code)
		if errors.Is(err, domainerrors.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", domainerrors.InternalServerError("could not allocate a unique invite code")
}

// ResolveScope checks that userID belongs to teamID and returns the scope for
// team-bound calls. A missing team is NotFound, a non-member is Forbidden.
func (u *TeamUsecase) ResolveScope(ctx context.Context, userID, teamID uuid.UUID) (entities.TeamScope, error) {
	member, err := u.memberRepo.Get(ctx, teamID, userID)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return entities.TeamScope{}, err
		}
		if _, err := u.teamRepo.GetByID(ctx, teamID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return entities.TeamScope{}, domainerrors.NotFound("team not found")
			}
			return entities.TeamScope{}, err
		}
		return entities.TeamScope{}, domainerrors.Forbidden("You are not a member of this team")
	}
	return entities.TeamScope{UserID: userID, TeamID: teamID, Role: member.Role}, nil
}

// GetTeam returns the scoped team
func (u *TeamUsecase) GetTeam(ctx context.Context, scope entities.TeamScope) (*entities.Team, error) {
	return u.teamRepo.GetByID(ctx, scope.TeamID)
}

// ListMembers returns the team's members, organizers first
func (u *TeamUsecase) ListMembers(ctx context.Context, scope entities.TeamScope) ([]*entities.TeamMember, error) {
	return u.memberRepo.ListByTeam(ctx, scope.TeamID)
}

// TouchLastSeen records a heartbeat for the scoped member. A change is only
// published when the member comes back from idle.
func (u *TeamUsecase) TouchLastSeen(ctx context.Context, scope entities.TeamScope) error {
	now := u.now()
	member, err := u.memberRepo.Get(ctx, scope.TeamID, scope.UserID)
	if err != nil {
		return err
	}

	if err := u.memberRepo.TouchLastSeen(ctx, scope.TeamID, scope.UserID, now); err != nil {
		return err
	}

	if !member.IsActiveSince(now.Add(-u.presenceWindow)) {
		notify(ctx, u.publisher, entities.TableTeamMembers, entities.ChangeUpdate, scope.TeamID, member.ID)
	}
	return nil
}

// SwitchActive remembers the scoped team as the user's active team
func (u *TeamUsecase) SwitchActive(ctx context.Context, scope entities.TeamScope) error {
	if u.activeTeams == nil {
		return nil
	}
	return u.activeTeams.Set(ctx, scope.UserID, scope.TeamID)
}

// GetActive returns the stored active team, or the user's first team when
// nothing valid is stored. NotFound when the user has no teams.
func (u *TeamUsecase) GetActive(ctx context.Context, userID uuid.UUID) (*entities.MyTeam, error) {
	teams, err := u.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, domainerrors.NotFound("You are not a member of any team")
	}

	if u.activeTeams != nil {
		stored, ok, err := u.activeTeams.Get(ctx, userID)
		if err != nil {
			logger.Warn(ctx, "Failed to read active team", zap.Error(err))
		}
		if ok {
			if team, found := lo.Find(teams, func(t *entities.MyTeam) bool { return t.ID == stored }); found {
				return team, nil
			}
		}
	}
	return teams[0], nil
}
