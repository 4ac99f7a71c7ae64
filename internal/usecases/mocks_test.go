package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"sprintos.backend/internal/domain/entities"
	"sprintos.backend/pkg/redis"
	"sprintos.backend/pkg/utils"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	args := m.Called(ctx)
	return args.Get(0).(context.Context)
}

// newUoW returns a unit of work that runs the callback inline and passes ctx through
func newUoW() *MockUnitOfWork {
	uow := new(MockUnitOfWork)
	uow.On("Do", mock.Anything, mock.Anything).Return(nil).Maybe()
	uow.On("WithLock", mock.Anything).Return(context.Background()).Maybe()
	return uow
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	if user.ID == uuid.Nil {
		user.ID = utils.GenerateUUIDv7()
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// Mock TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *entities.Team) error {
	args := m.Called(ctx, team)
	if team.ID == uuid.Nil {
		team.ID = utils.GenerateUUIDv7()
	}
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByInviteCode(ctx context.Context, code string) (*entities.Team, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) UpdateInviteCode(ctx context.Context, id uuid.UUID, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *MockTeamRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.MyTeam, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.MyTeam), args.Error(1)
}

// Mock TeamMemberRepository
type MockTeamMemberRepository struct {
	mock.Mock
}

func (m *MockTeamMemberRepository) Create(ctx context.Context, member *entities.TeamMember) error {
	args := m.Called(ctx, member)
	if member.ID == uuid.Nil {
		member.ID = utils.GenerateUUIDv7()
	}
	return args.Error(0)
}

func (m *MockTeamMemberRepository) Get(ctx context.Context, teamID, userID uuid.UUID) (*entities.TeamMember, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamMember), args.Error(1)
}

func (m *MockTeamMemberRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*entities.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TeamMember), args.Error(1)
}

func (m *MockTeamMemberRepository) UpdateRole(ctx context.Context, teamID, userID uuid.UUID, role entities.MemberRole) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) TouchLastSeen(ctx context.Context, teamID, userID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, teamID, userID, at)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) ListSeenBetween(ctx context.Context, from, to time.Time) ([]*entities.TeamMember, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TeamMember), args.Error(1)
}

// Mock TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *entities.Task) error {
	args := m.Called(ctx, task)
	if task.ID == uuid.Nil {
		task.ID = utils.GenerateUUIDv7()
	}
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByTeam(ctx context.Context, teamID uuid.UUID, filter entities.TaskFilter) ([]*entities.Task, int64, error) {
	args := m.Called(ctx, teamID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *entities.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TaskStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *entities.Note) error {
	args := m.Called(ctx, note)
	if note.ID == uuid.Nil {
		note.ID = utils.GenerateUUIDv7()
	}
	return args.Error(0)
}

func (m *MockNoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *MockNoteRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*entities.Note, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *MockNoteRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock SummaryRepository
type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Create(ctx context.Context, summary *entities.AISummary) error {
	args := m.Called(ctx, summary)
	if summary.ID == uuid.Nil {
		summary.ID = utils.GenerateUUIDv7()
	}
	return args.Error(0)
}

func (m *MockSummaryRepository) GetLatestByTeam(ctx context.Context, teamID uuid.UUID) (*entities.AISummary, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AISummary), args.Error(1)
}

// Mock ChangePublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, change entities.Change) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

// expectChange registers an expected publish for (table, type, team)
func (m *MockPublisher) expectChange(table string, typ entities.ChangeType, teamID uuid.UUID) *mock.Call {
	return m.On("Publish", mock.Anything, mock.MatchedBy(func(c entities.Change) bool {
		return c.Table == table && c.Type == typ && c.TeamID == teamID
	})).Return(nil)
}

// Mock Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

// Mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	args := m.Called(ctx, sessionID, data, expiration)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.SessionData), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// Mock ActiveTeamStore
type MockActiveTeamStore struct {
	mock.Mock
}

func (m *MockActiveTeamStore) Set(ctx context.Context, userID, teamID uuid.UUID) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

func (m *MockActiveTeamStore) Get(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}
