package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
)

func seedUser(t *testing.T, repo *UserRepository, email, name string) *entities.User {
	t.Helper()
	u := &entities.User{Email: email, Name: name, PasswordHash: "h"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestTeamRepository_CreateLookupAndRotateCode(t *testing.T) {
	db := newTestDB(t)
	createTeamTables(t, db)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := &entities.Team{Name: "Alpha", ProjectName: "Phoenix", InviteCode: "SPRT-AAAAA", CreatedBy: uuid.New()}
	require.NoError(t, repo.Create(ctx, team))
	require.NotEqual(t, uuid.Nil, team.ID)
	require.False(t, team.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, "Phoenix", got.ProjectName)

	got, err = repo.GetByInviteCode(ctx, "SPRT-AAAAA")
	require.NoError(t, err)
	require.Equal(t, team.ID, got.ID)

	require.NoError(t, repo.UpdateInviteCode(ctx, team.ID, "SPRT-BBBBB"))
	_, err = repo.GetByInviteCode(ctx, "SPRT-AAAAA")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	got, err = repo.GetByInviteCode(ctx, "SPRT-BBBBB")
	require.NoError(t, err)
	require.Equal(t, team.ID, got.ID)
}

func TestTeamRepository_CodeCollisionAndMissing(t *testing.T) {
	db := newTestDB(t)
	createTeamTables(t, db)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	a := &entities.Team{Name: "A", ProjectName: "P", InviteCode: "SPRT-11111", CreatedBy: uuid.New()}
	b := &entities.Team{Name: "B", ProjectName: "P", InviteCode: "SPRT-22222", CreatedBy: uuid.New()}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	require.ErrorIs(t, repo.UpdateInviteCode(ctx, b.ID, "SPRT-11111"), domainerrors.ErrAlreadyExists)
	require.ErrorIs(t, repo.Create(ctx, &entities.Team{Name: "C", InviteCode: "SPRT-22222"}), domainerrors.ErrAlreadyExists)
	require.ErrorIs(t, repo.UpdateInviteCode(ctx, uuid.New(), "SPRT-33333"), domainerrors.ErrNotFound)

	_, err := repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTeamRepository_ListByUserOrderedByJoin(t *testing.T) {
	db := newTestDB(t)
	createTeamTables(t, db)
	teams := NewTeamRepository(db)
	members := NewTeamMemberRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	first := &entities.Team{Name: "First", ProjectName: "P", InviteCode: "SPRT-FIRST", CreatedBy: userID}
	second := &entities.Team{Name: "Second", ProjectName: "P", InviteCode: "SPRT-SECND", CreatedBy: uuid.New()}
	other := &entities.Team{Name: "Other", ProjectName: "P", InviteCode: "SPRT-OTHER", CreatedBy: uuid.New()}
	for _, tm := range []*entities.Team{second, first, other} {
		require.NoError(t, teams.Create(ctx, tm))
	}

	require.NoError(t, members.Create(ctx, &entities.TeamMember{TeamID: second.ID, UserID: userID, Role: entities.RoleMember, JoinedAt: base.Add(time.Hour)}))
	require.NoError(t, members.Create(ctx, &entities.TeamMember{TeamID: first.ID, UserID: userID, Role: entities.RoleOrganizer, JoinedAt: base}))
	require.NoError(t, members.Create(ctx, &entities.TeamMember{TeamID: other.ID, UserID: uuid.New(), Role: entities.RoleOrganizer, JoinedAt: base}))

	mine, err := teams.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, first.ID, mine[0].ID)
	require.Equal(t, entities.RoleOrganizer, mine[0].Role)
	require.Equal(t, "SPRT-FIRST", mine[0].InviteCode)
	require.Equal(t, second.ID, mine[1].ID)
	require.Equal(t, entities.RoleMember, mine[1].Role)

	none, err := teams.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestTeamMemberRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	createTeamTables(t, db)
	users := NewUserRepository(db)
	members := NewTeamMemberRepository(db)
	ctx := context.Background()
	teamID := uuid.New()

	org := seedUser(t, users, "org@x.io", "Olga")
	dev := seedUser(t, users, "dev@x.io", "")

	require.NoError(t, members.Create(ctx, &entities.TeamMember{TeamID: teamID, UserID: dev.ID, Role: entities.RoleMember}))
	require.NoError(t, members.Create(ctx, &entities.TeamMember{TeamID: teamID, UserID: org.ID, Role: entities.RoleOrganizer}))
	require.ErrorIs(t, members.Create(ctx, &entities.TeamMember{TeamID: teamID, UserID: dev.ID, Role: entities.RoleMember}), domainerrors.ErrAlreadyExists)

	list, err := members.ListByTeam(ctx, teamID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, org.ID, list[0].UserID, "organizer listed first")
	require.Equal(t, "Olga", list[0].UserName)
	require.Equal(t, "dev@x.io", list[1].UserEmail)

	require.NoError(t, members.UpdateRole(ctx, teamID, dev.ID, entities.RoleBackend))
	got, err := members.Get(ctx, teamID, dev.ID)
	require.NoError(t, err)
	require.Equal(t, entities.RoleBackend, got.Role)
	require.False(t, got.LastSeen.Valid)

	seen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, members.TouchLastSeen(ctx, teamID, dev.ID, seen))
	got, err = members.Get(ctx, teamID, dev.ID)
	require.NoError(t, err)
	require.True(t, got.LastSeen.Valid)
	require.True(t, got.LastSeen.Time.Equal(seen))

	require.ErrorIs(t, members.UpdateRole(ctx, teamID, uuid.New(), entities.RoleAI), domainerrors.ErrNotFound)
	require.ErrorIs(t, members.TouchLastSeen(ctx, uuid.New(), dev.ID, seen), domainerrors.ErrNotFound)
	_, err = members.Get(ctx, uuid.New(), dev.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTeamMemberRepository_ListSeenBetween(t *testing.T) {
	db := newTestDB(t)
	createTeamTables(t, db)
	members := NewTeamMemberRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	in := &entities.TeamMember{TeamID: uuid.New(), UserID: uuid.New(), Role: entities.RoleMember, LastSeen: null.TimeFrom(now.Add(-5*time.Minute - 30*time.Second))}
	tooOld := &entities.TeamMember{TeamID: uuid.New(), UserID: uuid.New(), Role: entities.RoleMember, LastSeen: null.TimeFrom(now.Add(-time.Hour))}
	fresh := &entities.TeamMember{TeamID: uuid.New(), UserID: uuid.New(), Role: entities.RoleMember, LastSeen: null.TimeFrom(now.Add(-time.Minute))}
	never := &entities.TeamMember{TeamID: uuid.New(), UserID: uuid.New(), Role: entities.RoleMember}
	for _, m := range []*entities.TeamMember{in, tooOld, fresh, never} {
		require.NoError(t, members.Create(ctx, m))
	}

	got, err := members.ListSeenBetween(ctx, now.Add(-6*time.Minute), now.Add(-5*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, in.UserID, got[0].UserID)
}

func TestTeamRepositories_DBErrors(t *testing.T) {
	db := newTestDB(t)
	teams := NewTeamRepository(db)
	members := NewTeamMemberRepository(db)
	ctx := context.Background()

	require.Error(t, teams.Create(ctx, &entities.Team{Name: "x"}))
	_, err := teams.GetByInviteCode(ctx, "SPRT-XXXXX")
	require.Error(t, err)
	require.NotErrorIs(t, err, domainerrors.ErrNotFound)
	require.Error(t, teams.UpdateInviteCode(ctx, uuid.New(), "SPRT-XXXXX"))
	_, err = teams.ListByUser(ctx, uuid.New())
	require.Error(t, err)

	require.Error(t, members.Create(ctx, &entities.TeamMember{TeamID: uuid.New(), UserID: uuid.New()}))
	_, err = members.ListByTeam(ctx, uuid.New())
	require.Error(t, err)
	_, err = members.ListSeenBetween(ctx, time.Now(), time.Now())
	require.Error(t, err)
}
