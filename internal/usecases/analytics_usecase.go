package usecases

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/domain/repositories"
)

// AnalyticsUsecase computes team progress figures
type AnalyticsUsecase struct {
	teamRepo       repositories.TeamRepository
	memberRepo     repositories.TeamMemberRepository
	taskRepo       repositories.TaskRepository
	summaryRepo    repositories.SummaryRepository
	userRepo       repositories.UserRepository
	presenceWindow time.Duration
	now            func() time.Time
}

// NewAnalyticsUsecase creates a new analytics usecase
func NewAnalyticsUsecase(
	teamRepo repositories.TeamRepository,
	memberRepo repositories.TeamMemberRepository,
	taskRepo repositories.TaskRepository,
	summaryRepo repositories.SummaryRepository,
	userRepo repositories.UserRepository,
) *AnalyticsUsecase {
	return &AnalyticsUsecase{
		teamRepo:       teamRepo,
		memberRepo:     memberRepo,
		taskRepo:       taskRepo,
		summaryRepo:    summaryRepo,
		userRepo:       userRepo,
		presenceWindow: DefaultPresenceWindow,
		now:            time.Now,
	}
}

// SetPresenceWindow overrides DefaultPresenceWindow
func (u *AnalyticsUsecase) SetPresenceWindow(d time.Duration) {
	if d > 0 {
		u.presenceWindow = d
	}
}

// TeamAnalytics returns task totals, completion rate, per-member load and presence
func (u *AnalyticsUsecase) TeamAnalytics(ctx context.Context, scope entities.TeamScope) (*entities.TeamAnalytics, error) {
	members, err := u.memberRepo.ListByTeam(ctx, scope.TeamID)
	if err != nil {
		return nil, err
	}
	return u.analytics(ctx, scope, members)
}

func (u *AnalyticsUsecase) analytics(ctx context.Context, scope entities.TeamScope, members []*entities.TeamMember) (*entities.TeamAnalytics, error) {
	tasks, _, err := u.taskRepo.ListByTeam(ctx, scope.TeamID, entities.TaskFilter{})
	if err != nil {
		return nil, err
	}

	countStatus := func(s entities.TaskStatus) int {
		return lo.CountBy(tasks, func(t *entities.Task) bool { return t.Status == s })
	}

	out := &entities.TeamAnalytics{
		TotalTasks:      len(tasks),
		CompletedTasks:  countStatus(entities.TaskStatusCompleted),
		InProgressTasks: countStatus(entities.TaskStatusInProgress),
		PendingTasks:    countStatus(entities.TaskStatusPending),
		MemberCount:     len(members),
	}
	if out.TotalTasks > 0 {
		out.CompletionRate = int(math.Round(float64(out.CompletedTasks) * 100 / float64(out.TotalTasks)))
	}

	activeSince := u.now().Add(-u.presenceWindow)
	out.ActiveMembers = lo.CountBy(members, func(m *entities.TeamMember) bool { return m.IsActiveSince(activeSince) })

	labels := u.assigneeLabels(ctx, tasks, members)
	names := lo.Map(tasks, func(t *entities.Task, _ int) string { return labels[t.AssignedTo.String] })
	counts := lo.CountValues(names)
	out.TasksPerMember = lo.Map(lo.Uniq(names), func(name string, _ int) entities.MemberTaskCount {
		return entities.MemberTaskCount{Name: name, Tasks: counts[name]}
	})

	return out, nil
}

// assigneeLabels maps assignee ids (as stored on tasks) to display names.
// Unassigned tasks map from "" and unknown users fall back to UnassignedLabel.
func (u *AnalyticsUsecase) assigneeLabels(ctx context.Context, tasks []*entities.Task, members []*entities.TeamMember) map[string]string {
	labels := map[string]string{"": entities.UnassignedLabel}
	for _, m := range members {
		labels[m.UserID.String()] = displayName(m.UserName, m.UserEmail)
	}

	for _, t := range tasks {
		id := t.AssignedTo.String
		if _, ok := labels[id]; ok {
			continue
		}
		labels[id] = entities.UnassignedLabel

		// assignee left the team; look the user up directly
		userID, err := uuid.Parse(id)
		if err != nil || u.userRepo == nil {
			continue
		}
		if user, err := u.userRepo.GetByID(ctx, userID); err == nil {
			labels[id] = displayName(user.Name, user.Email)
		}
	}
	return labels
}

func displayName(name, email string) string {
	return lo.CoalesceOrEmpty(name, email, entities.UnassignedLabel)
}

// Dashboard assembles the team overview: team, analytics, members and latest summary
func (u *AnalyticsUsecase) Dashboard(ctx context.Context, scope entities.TeamScope) (*entities.Dashboard, error) {
	team, err := u.teamRepo.GetByID(ctx, scope.TeamID)
	if err != nil {
		return nil, err
	}

	members, err := u.memberRepo.ListByTeam(ctx, scope.TeamID)
	if err != nil {
		return nil, err
	}

	analytics, err := u.analytics(ctx, scope, members)
	if err != nil {
		return nil, err
	}

	latest, err := u.summaryRepo.GetLatestByTeam(ctx, scope.TeamID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	return &entities.Dashboard{
		Team:          team,
		Analytics:     analytics,
		Members:       members,
		LatestSummary: latest,
	}, nil
}
