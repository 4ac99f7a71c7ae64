package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
)

// codeTeamRepo is a TeamRepository stub that knows a fixed set of taken codes
type codeTeamRepo struct {
	current string
	taken   map[string]bool
	updated []string
}

func (r *codeTeamRepo) Create(context.Context, *entities.Team) error { return nil }
func (r *codeTeamRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Team, error) {
	return &entities.Team{ID: id, InviteCode: r.current}, nil
}
func (r *codeTeamRepo) GetByInviteCode(_ context.Context, code string) (*entities.Team, error) {
	if r.taken[code] {
		return &entities.Team{InviteCode: code}, nil
	}
	return nil, domainerrors.ErrNotFound
}
func (r *codeTeamRepo) UpdateInviteCode(_ context.Context, _ uuid.UUID, code string) error {
	if r.taken[code] {
		return domainerrors.ErrAlreadyExists
	}
	r.updated = append(r.updated, code)
	return nil
}
func (r *codeTeamRepo) ListByUser(context.Context, uuid.UUID) ([]*entities.MyTeam, error) {
	return nil, nil
}

type organizerRepo struct{}

func (organizerRepo) Create(context.Context, *entities.TeamMember) error { return nil }
func (organizerRepo) Get(context.Context, uuid.UUID, uuid.UUID) (*entities.TeamMember, error) {
	return &entities.TeamMember{Role: entities.RoleOrganizer}, nil
}
func (organizerRepo) ListByTeam(context.Context, uuid.UUID) ([]*entities.TeamMember, error) {
	return nil, nil
}
func (organizerRepo) UpdateRole(context.Context, uuid.UUID, uuid.UUID, entities.MemberRole) error {
	return nil
}
func (organizerRepo) TouchLastSeen(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	return nil
}
func (organizerRepo) ListSeenBetween(context.Context, time.Time, time.Time) ([]*entities.TeamMember, error) {
	return nil, nil
}

func sequenceCodes(t *testing.T, codes ...string) {
	t.Helper()
	orig := generateInviteCode
	t.Cleanup(func() { generateInviteCode = orig })

	i := 0
	generateInviteCode = func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func TestDrawInviteCode_SkipsTakenCodes(t *testing.T) {
	sequenceCodes(t, "SPRT-AAAAAA", "SPRT-BBBBBB", "SPRT-CCCCCC")
	repo := &codeTeamRepo{taken: map[string]bool{"SPRT-AAAAAA": true}}

	code, err := drawInviteCode(context.Background(), repo, "SPRT-BBBBBB")
	require.NoError(t, err)
	assert.Equal(t, "SPRT-CCCCCC", code)
}

func TestDrawInviteCode_Exhausted(t *testing.T) {
	sequenceCodes(t, "SPRT-AAAAAA")
	repo := &codeTeamRepo{taken: map[string]bool{"SPRT-AAAAAA": true}}

	_, err := drawInviteCode(context.Background(), repo, "")
	require.Error(t, err)
	assert.Equal(t, 500, domainerrors.FromError(err).Status)
}

func TestDrawInviteCode_GeneratorError(t *testing.T) {
	orig := generateInviteCode
	t.Cleanup(func() { generateInviteCode = orig })
	generateInviteCode = func() (string, error) { return "", errors.New("rand failed") }

	_, err := drawInviteCode(context.Background(), &codeTeamRepo{}, "")
	assert.EqualError(t, err, "rand failed")
}

func TestRegenerateInviteCode_NeverReturnsCurrentCode(t *testing.T) {
	sequenceCodes(t, "SPRT-SAME00", "SPRT-TAKEN0", "SPRT-FRESH0")
	repo := &codeTeamRepo{current: "SPRT-SAME00", taken: map[string]bool{"SPRT-TAKEN0": true}}
	uc := NewInviteUsecase(repo, organizerRepo{}, nil, nil)

	code, err := uc.RegenerateInviteCode(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "SPRT-FRESH0", code)
	assert.Equal(t, []string{"SPRT-FRESH0"}, repo.updated)
}

// racyTeamRepo reports every code as free but rejects the first inserts as duplicates
type racyTeamRepo struct {
	codeTeamRepo
	collisions int
	inserted   []string
}

func (r *racyTeamRepo) Create(_ context.Context, team *entities.Team) error {
	if r.collisions > 0 {
		r.collisions--
		return domainerrors.ErrAlreadyExists
	}
	team.ID = uuid.New()
	r.inserted = append(r.inserted, team.InviteCode)
	return nil
}

type inlineUOW struct{ runs int }

func (u *inlineUOW) Do(ctx context.Context, fn func(context.Context) error) error {
	u.runs++
	return fn(ctx)
}
func (u *inlineUOW) WithLock(ctx context.Context) context.Context { return ctx }

func TestCreateTeam_RetriesWhenCodeIsClaimedAtInsert(t *testing.T) {
	sequenceCodes(t, "SPRT-RACE01", "SPRT-RACE02", "SPRT-FRESH1")
	repo := &racyTeamRepo{codeTeamRepo: codeTeamRepo{taken: map[string]bool{}}, collisions: 2}
	uow := &inlineUOW{}
	uc := NewTeamUsecase(repo, organizerRepo{}, uow, nil, nil)

	res, err := uc.CreateTeam(context.Background(), uuid.New(), &entities.CreateTeamInput{Name: "Alpha", ProjectName: "Phoenix"})
	require.NoError(t, err)
	assert.Equal(t, "SPRT-FRESH1", res.InviteCode)
	assert.Equal(t, []string{"SPRT-FRESH1"}, repo.inserted)
	assert.Equal(t, 3, uow.runs)
}

func TestCreateTeam_GivesUpAfterRepeatedInsertCollisions(t *testing.T) {
	sequenceCodes(t, "SPRT-RACE01")
	repo := &racyTeamRepo{codeTeamRepo: codeTeamRepo{taken: map[string]bool{}}, collisions: MaxInviteCodeAttempts}
	uow := &inlineUOW{}
	uc := NewTeamUsecase(repo, organizerRepo{}, uow, nil, nil)

	_, err := uc.CreateTeam(context.Background(), uuid.New(), &entities.CreateTeamInput{Name: "Alpha", ProjectName: "Phoenix"})
	require.Error(t, err)
	assert.Equal(t, 500, domainerrors.FromError(err).Status)
	assert.Equal(t, MaxInviteCodeAttempts, uow.runs)
	assert.Empty(t, repo.inserted)
}
