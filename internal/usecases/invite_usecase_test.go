package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/usecases"
)

func TestInviteUsecase_RegenerateInviteCode_Success(t *testing.T) {
	teamRepo := new(MockTeamRepository)
	memberRepo := new(MockTeamMemberRepository)
	pub := new(MockPublisher)
	uc := usecases.NewInviteUsecase(teamRepo, memberRepo, newUoW(), pub)
	teamID, callerID := uuid.New(), uuid.New()

	teamRepo.On("GetByID", mock.Anything, teamID).Return(&entities.Team{ID: teamID, InviteCode: "SPRT-OLD0001"}, nil).Once()
	memberRepo.On("Get", mock.Anything, teamID, callerID).Return(&entities.TeamMember{Role: entities.RoleOrganizer}, nil).Once()
	teamRepo.On("UpdateInviteCode", mock.Anything, teamID, mock.AnythingOfType("string")).Return(nil).Once()
	pub.expectChange(entities.TableTeams, entities.ChangeUpdate, teamID).Once()

	code, err := uc.RegenerateInviteCode(context.Background(), callerID, teamID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, entities.InviteCodePrefix))
	assert.NotEqual(t, "SPRT-OLD0001", code)
	teamRepo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestInviteUsecase_RegenerateInviteCode_RetriesOnCollision(t *testing.T) {
	teamRepo := new(MockTeamRepository)
	memberRepo := new(MockTeamMemberRepository)
	uc := usecases.NewInviteUsecase(teamRepo, memberRepo, newUoW(), nil)
	teamID, callerID := uuid.New(), uuid.New()

	teamRepo.On("GetByID", mock.Anything, teamID).Return(&entities.Team{ID: teamID}, nil).Once()
	memberRepo.On("Get", mock.Anything, teamID, callerID).Return(&entities.TeamMember{Role: entities.RoleOrganizer}, nil).Once()
	teamRepo.On("UpdateInviteCode", mock.Anything, teamID, mock.Anything).Return(domainerrors.ErrAlreadyExists).Twice()
	teamRepo.On("UpdateInviteCode", mock.Anything, teamID, mock.Anything).Return(nil).Once()

	code, err := uc.RegenerateInviteCode(context.Background(), callerID, teamID)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
	teamRepo.AssertNumberOfCalls(t, "UpdateInviteCode", 3)
}

func TestInviteUsecase_RegenerateInviteCode_GivesUp(t *testing.T) {
	teamRepo := new(MockTeamRepository)
	memberRepo := new(MockTeamMemberRepository)
	uc := usecases.NewInviteUsecase(teamRepo, memberRepo, newUoW(), nil)
	teamID, callerID := uuid.New(), uuid.New()

	teamRepo.On("GetByID", mock.Anything, teamID).Return(&entities.Team{ID: teamID}, nil).Once()
	memberRepo.On("Get", mock.Anything, teamID, callerID).Return(&entities.TeamMember{Role: entities.RoleOrganizer}, nil).Once()
	teamRepo.On("UpdateInviteCode", mock.Anything, teamID, mock.Anything).Return(domainerrors.ErrAlreadyExists)

	_, err := uc.RegenerateInviteCode(context.Background(), callerID, teamID)
	require.Error(t, err)
	assert.Equal(t, 500, domainerrors.FromError(err).Status)
	teamRepo.AssertNumberOfCalls(t, "UpdateInviteCode", usecases.MaxInviteCodeAttempts)
}

func TestInviteUsecase_RegenerateInviteCode_Authorization(t *testing.T) {
	teamID, callerID := uuid.New(), uuid.New()

	t.Run("team missing", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		uc := usecases.NewInviteUsecase(teamRepo, new(MockTeamMemberRepository), newUoW(), nil)
		teamRepo.On("GetByID", mock.Anything, teamID).Return(nil, domainerrors.ErrNotFound).Once()

		_, err := uc.RegenerateInviteCode(context.Background(), callerID, teamID)
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})

	t.Run("not a member", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		memberRepo := new(MockTeamMemberRepository)
		uc := usecases.NewInviteUsecase(teamRepo, memberRepo, newUoW(), nil)
		teamRepo.On("GetByID", mock.Anything, teamID).Return(&entities.Team{ID: teamID}, nil).Once()
		memberRepo.On("Get", mock.Anything, teamID, callerID).Return(nil, domainerrors.ErrNotFound).Once()

		_, err := uc.RegenerateInviteCode(context.Background(), callerID, teamID)
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("not an organizer", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		memberRepo := new(MockTeamMemberRepository)
		uc := usecases.NewInviteUsecase(teamRepo, memberRepo, newUoW(), nil)
		teamRepo.On("GetByID", mock.Anything, teamID).Return(&entities.Team{ID: teamID}, nil).Once()
		memberRepo.On("Get", mock.Anything, teamID, callerID).Return(&entities.TeamMember{Role: entities.RoleDesign}, nil).Once()

		_, err := uc.RegenerateInviteCode(context.Background(), callerID, teamID)
		assert.ErrorIs(t, err, domainerrors.ErrNotOrganizer)
		teamRepo.AssertNotCalled(t, "UpdateInviteCode", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInviteUsecase_JoinTeamViaInvite_Success(t *testing.T) {
	teamRepo := new(MockTeamRepository)
	memberRepo := new(MockTeamMemberRepository)
	pub := new(MockPublisher)
	uc := usecases.NewInviteUsecase(teamRepo, memberRepo, newUoW(), pub)
	team := &entities.Team{ID: uuid.New(), Name: "Alpha"}
	callerID := uuid.New()

	teamRepo.On("GetByInviteCode", mock.Anything, "SPRT-ABC123").Return(team, nil).Once()
	memberRepo.On("Get", mock.Anything, team.ID, callerID).Return(nil, domainerrors.ErrNotFound).Once()
	memberRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *entities.TeamMember) bool {
		return m.TeamID == team.ID && m.UserID == callerID && m.Role == entities.RoleMember
	})).Return(nil).Once()
	pub.expectChange(entities.TableTeamMembers, entities.ChangeInsert, team.ID).Once()

	res, err := uc.JoinTeamViaInvite(context.Background(), callerID, "  sprt-abc123 ")
	require.NoError(t, err)
	assert.Equal(t, &entities.JoinResult{TeamID: team.ID, TeamName: "Alpha"}, res)
	memberRepo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestInviteUsecase_JoinTeamViaInvite_Errors(t *testing.T) {
	callerID := uuid.New()
	team := &entities.Team{ID: uuid.New(), Name: "Alpha"}

	t.Run("blank code", func(t *testing.T) {
		uc := usecases.NewInviteUsecase(new(MockTeamRepository), new(MockTeamMemberRepository), newUoW(), nil)
		_, err := uc.JoinTeamViaInvite(context.Background(), callerID, "   ")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("unknown code", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		uc := usecases.NewInviteUsecase(teamRepo, new(MockTeamMemberRepository), newUoW(), nil)
		teamRepo.On("GetByInviteCode", mock.Anything, "SPRT-NOPE").Return(nil, domainerrors.ErrNotFound).Once()

		_, err := uc.JoinTeamViaInvite(context.Background(), callerID, "sprt-nope")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInviteCode)
		assert.Equal(t, domainerrors.CodeInvalidInviteCode, domainerrors.FromError(err).Code)
	})

	t.Run("already a member", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		memberRepo := new(MockTeamMemberRepository)
		pub := new(MockPublisher)
		uc := usecases.NewInviteUsecase(teamRepo, memberRepo, newUoW(), pub)
		teamRepo.On("GetByInviteCode", mock.Anything, "SPRT-ABC").Return(team, nil).Once()
		memberRepo.On("Get", mock.Anything, team.ID, callerID).Return(&entities.TeamMember{}, nil).Once()

		_, err := uc.JoinTeamViaInvite(context.Background(), callerID, "SPRT-ABC")
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyMember)
		memberRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("concurrent join hits unique constraint", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		memberRepo := new(MockTeamMemberRepository)
		uc := usecases.NewInviteUsecase(teamRepo, memberRepo, newUoW(), nil)
		teamRepo.On("GetByInviteCode", mock.Anything, "SPRT-ABC").Return(team, nil).Once()
		memberRepo.On("Get", mock.Anything, team.ID, callerID).Return(nil, domainerrors.ErrNotFound).Once()
		memberRepo.On("Create", mock.Anything, mock.Anything).Return(domainerrors.ErrAlreadyExists).Once()

		_, err := uc.JoinTeamViaInvite(context.Background(), callerID, "SPRT-ABC")
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyMember)
	})

	t.Run("lookup failure", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)
		uc := usecases.NewInviteUsecase(teamRepo, new(MockTeamMemberRepository), newUoW(), nil)
		teamRepo.On("GetByInviteCode", mock.Anything, "SPRT-ABC").Return(nil, errors.New("db down")).Once()

		_, err := uc.JoinTeamViaInvite(context.Background(), callerID, "SPRT-ABC")
		assert.EqualError(t, err, "db down")
	})
}

func TestInviteUsecase_UpdateMemberRole(t *testing.T) {
	teamID, organizerID, memberID := uuid.New(), uuid.New(), uuid.New()
	organizer := func() *entities.TeamMember {
		return &entities.TeamMember{ID: uuid.New(), TeamID: teamID, UserID: organizerID, Role: entities.RoleOrganizer}
	}

	t.Run("invalid role", func(t *testing.T) {
		uc := usecases.NewInviteUsecase(new(MockTeamRepository), new(MockTeamMemberRepository), newUoW(), nil)
		_, err := uc.UpdateMemberRole(context.Background(), organizerID, teamID, memberID, &entities.UpdateMemberRoleInput{Role: "captain"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("promotes a member", func(t *testing.T) {
		memberRepo := new(MockTeamMemberRepository)
		pub := new(MockPublisher)
		uow := newUoW()
		uc := usecases.NewInviteUsecase(new(MockTeamRepository), memberRepo, uow, pub)

		memberRepo.On("Get", mock.Anything, teamID, organizerID).Return(organizer(), nil).Once()
		memberRepo.On("Get", mock.Anything, teamID, memberID).Return(&entities.TeamMember{ID: uuid.New(), UserID: memberID, Role: entities.RoleMember}, nil).Once()
		memberRepo.On("UpdateRole", mock.Anything, teamID, memberID, entities.RoleBackend).Return(nil).Once()
		pub.expectChange(entities.TableTeamMembers, entities.ChangeUpdate, teamID).Once()

		got, err := uc.UpdateMemberRole(context.Background(), organizerID, teamID, memberID, &entities.UpdateMemberRoleInput{Role: entities.RoleBackend})
		require.NoError(t, err)
		assert.Equal(t, entities.RoleBackend, got.Role)
		memberRepo.AssertExpectations(t)
		pub.AssertExpectations(t)
		uow.AssertCalled(t, "WithLock", mock.Anything)
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		memberRepo := new(MockTeamMemberRepository)
		pub := new(MockPublisher)
		uc := usecases.NewInviteUsecase(new(MockTeamRepository), memberRepo, newUoW(), pub)

		memberRepo.On("Get", mock.Anything, teamID, organizerID).Return(organizer(), nil).Once()
		memberRepo.On("Get", mock.Anything, teamID, memberID).Return(&entities.TeamMember{UserID: memberID, Role: entities.RoleAI}, nil).Once()

		got, err := uc.UpdateMemberRole(context.Background(), organizerID, teamID, memberID, &entities.UpdateMemberRoleInput{Role: entities.RoleAI})
		require.NoError(t, err)
		assert.Equal(t, entities.RoleAI, got.Role)
		memberRepo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("self demotion needs confirmation", func(t *testing.T) {
		memberRepo := new(MockTeamMemberRepository)
		uc := usecases.NewInviteUsecase(new(MockTeamRepository), memberRepo, newUoW(), nil)

		memberRepo.On("Get", mock.Anything, teamID, organizerID).Return(organizer(), nil).Twice()

		_, err := uc.UpdateMemberRole(context.Background(), organizerID, teamID, organizerID, &entities.UpdateMemberRoleInput{Role: entities.RoleFrontend})
		assert.ErrorIs(t, err, domainerrors.ErrSelfDemotion)
		assert.Equal(t, domainerrors.CodeConfirmationRequired, domainerrors.FromError(err).Code)
		memberRepo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed self demotion", func(t *testing.T) {
		memberRepo := new(MockTeamMemberRepository)
		uc := usecases.NewInviteUsecase(new(MockTeamRepository), memberRepo, newUoW(), nil)

		memberRepo.On("Get", mock.Anything, teamID, organizerID).Return(organizer(), nil).Twice()
		memberRepo.On("UpdateRole", mock.Anything, teamID, organizerID, entities.RoleFrontend).Return(nil).Once()

		got, err := uc.UpdateMemberRole(context.Background(), organizerID, teamID, organizerID, &entities.UpdateMemberRoleInput{
			Role:                entities.RoleFrontend,
			ConfirmSelfDemotion: true,
		})
		require.NoError(t, err)
		assert.Equal(t, entities.RoleFrontend, got.Role)
	})

	t.Run("target missing", func(t *testing.T) {
		memberRepo := new(MockTeamMemberRepository)
		uc := usecases.NewInviteUsecase(new(MockTeamRepository), memberRepo, newUoW(), nil)

		memberRepo.On("Get", mock.Anything, teamID, organizerID).Return(organizer(), nil).Once()
		memberRepo.On("Get", mock.Anything, teamID, memberID).Return(nil, domainerrors.ErrNotFound).Once()

		_, err := uc.UpdateMemberRole(context.Background(), organizerID, teamID, memberID, &entities.UpdateMemberRoleInput{Role: entities.RoleBackend})
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})

	t.Run("caller is not organizer", func(t *testing.T) {
		memberRepo := new(MockTeamMemberRepository)
		uc := usecases.NewInviteUsecase(new(MockTeamRepository), memberRepo, newUoW(), nil)

		memberRepo.On("Get", mock.Anything, teamID, memberID).Return(&entities.TeamMember{Role: entities.RoleMember}, nil).Once()

		_, err := uc.UpdateMemberRole(context.Background(), memberID, teamID, organizerID, &entities.UpdateMemberRoleInput{Role: entities.RoleMember})
		assert.ErrorIs(t, err, domainerrors.ErrNotOrganizer)
	})
}
