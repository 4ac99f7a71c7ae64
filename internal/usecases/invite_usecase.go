package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/domain/repositories"
	"sprintos.backend/pkg/logger"
)

// InviteUsecase covers invite codes and role changes
type InviteUsecase struct {
	teamRepo   repositories.TeamRepository
	memberRepo repositories.TeamMemberRepository
	uow        repositories.UnitOfWork
	publisher  ChangePublisher
}

// NewInviteUsecase creates a new invite usecase
func NewInviteUsecase(
	teamRepo repositories.TeamRepository,
	memberRepo repositories.TeamMemberRepository,
	uow repositories.UnitOfWork,
	publisher ChangePublisher,
) *InviteUsecase {
	return &InviteUsecase{
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		uow:        uow,
		publisher:  publisher,
	}
}

// requireOrganizer returns ErrForbidden for non-members and ErrNotOrganizer for other roles
func (u *InviteUsecase) requireOrganizer(ctx context.Context, teamID, userID uuid.UUID) error {
	caller, err := u.memberRepo.Get(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrForbidden
		}
		return err
	}
	if caller.Role != entities.RoleOrganizer {
		return domainerrors.ErrNotOrganizer
	}
	return nil
}

// RegenerateInviteCode replaces the team's invite code. The old code stops working immediately.
func (u *InviteUsecase) RegenerateInviteCode(ctx context.Context, callerID, teamID uuid.UUID) (string, error) {
	team, err := u.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return "", err
	}
	if err := u.requireOrganizer(ctx, teamID, callerID); err != nil {
		return "", err
	}

	for attempt := 0; attempt < MaxInviteCodeAttempts; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return "", err
		}
		if code == team.InviteCode {
			continue
		}

		err = u.teamRepo.UpdateInviteCode(ctx, teamID, code)
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			logger.Debug(ctx, "Invite code collision, retrying", zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return "", err
		}

		notify(ctx, u.publisher, entities.TableTeams, entities.ChangeUpdate, teamID, teamID)
		logger.Info(ctx, "Invite code regenerated", zap.String("team_id", teamID.String()))
		return code, nil
	}
	return "", domainerrors.InternalServerError("could not allocate a unique invite code")
}

// JoinTeamViaInvite adds the caller to the team owning code, as a plain member
func (u *InviteUsecase) JoinTeamViaInvite(ctx context.Context, callerID uuid.UUID, code string) (*entities.JoinResult, error) {
	code = entities.NormalizeInviteCode(code)
	if code == "" {
		return nil, domainerrors.BadRequest("invite code is required")
	}

	team, err := u.teamRepo.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidInviteCode
		}
		return nil, err
	}

	member := &entities.TeamMember{
		TeamID: team.ID,
		UserID: callerID,
		Role:   entities.RoleMember,
	}
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		_, err := u.memberRepo.Get(txCtx, team.ID, callerID)
		if err == nil {
			return domainerrors.ErrAlreadyMember
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}

		if err := u.memberRepo.Create(txCtx, member); err != nil {
			if errors.Is(err, domainerrors.ErrAlreadyExists) {
				return domainerrors.ErrAlreadyMember
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notify(ctx, u.publisher, entities.TableTeamMembers, entities.ChangeInsert, team.ID, member.ID)
	logger.Info(ctx, "Member joined team", zap.String("team_id", team.ID.String()), zap.String("user_id", callerID.String()))
	return &entities.JoinResult{TeamID: team.ID, TeamName: team.Name}, nil
}

// UpdateMemberRole changes a member's role. Organizers demoting themselves
// must pass ConfirmSelfDemotion.
func (u *InviteUsecase) UpdateMemberRole(ctx context.Context, callerID, teamID, memberUserID uuid.UUID, input *entities.UpdateMemberRoleInput) (*entities.TeamMember, error) {
	if !input.Role.IsValid() {
		return nil, domainerrors.BadRequest("invalid role")
	}

	var target *entities.TeamMember
	changed := false
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)
		if err := u.requireOrganizer(lockCtx, teamID, callerID); err != nil {
			return err
		}

		var err error
		target, err = u.memberRepo.Get(lockCtx, teamID, memberUserID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("member not found")
			}
			return err
		}

		if memberUserID == callerID && input.Role != entities.RoleOrganizer && !input.ConfirmSelfDemotion {
			return domainerrors.ErrSelfDemotion
		}
		if target.Role == input.Role {
			return nil
		}

		if err := u.memberRepo.UpdateRole(txCtx, teamID, memberUserID, input.Role); err != nil {
			return err
		}
		target.Role = input.Role
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		notify(ctx, u.publisher, entities.TableTeamMembers, entities.ChangeUpdate, teamID, target.ID)
	}
	return target, nil
}
