package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"sprintos.backend/internal/domain/entities"
	"sprintos.backend/pkg/logger"
)

const (
	defaultPresenceSchedule = "0 * * * * *"
	defaultIdleAfter        = 5 * time.Minute
)

type memberSeenLister interface {
	ListSeenBetween(ctx context.Context, from, to time.Time) ([]*entities.TeamMember, error)
}

type changePublisher interface {
	Publish(ctx context.Context, change entities.Change) error
}

// PresenceSweepJob notices members going idle. Nothing in the database
// changes when a member stops sending heartbeats, so each sweep publishes a
// team_members UPDATE for every team where someone crossed the idle threshold
// since the previous sweep. RecordID is zero on these bulk changes.
type PresenceSweepJob struct {
	repo      memberSeenLister
	publisher changePublisher
	schedule  string
	idleAfter time.Duration
	cron      *cron.Cron
	now       func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

// NewPresenceSweepJob creates the job. schedule uses six-field cron syntax (with seconds).
func NewPresenceSweepJob(repo memberSeenLister, publisher changePublisher, schedule string, idleAfter time.Duration) *PresenceSweepJob {
	if schedule == "" {
		schedule = defaultPresenceSchedule
	}
	if idleAfter <= 0 {
		idleAfter = defaultIdleAfter
	}
	return &PresenceSweepJob{
		repo:      repo,
		publisher: publisher,
		schedule:  schedule,
		idleAfter: idleAfter,
		cron:      cron.New(cron.WithSeconds()),
		now:       time.Now,
	}
}

// Start registers the sweep and starts the scheduler
func (j *PresenceSweepJob) Start(ctx context.Context) error {
	j.mu.Lock()
	j.lastSweep = j.now()
	j.mu.Unlock()

	entryID, err := j.cron.AddFunc(j.schedule, func() { j.Sweep(ctx) })
	if err != nil {
		logger.Error(ctx, "Failed to register presence sweep", zap.String("schedule", j.schedule), zap.Error(err))
		return err
	}

	j.cron.Start()
	logger.Info(ctx, "Presence sweep scheduled",
		zap.String("schedule", j.schedule),
		zap.Int("entry_id", int(entryID)),
		zap.Duration("idle_after", j.idleAfter),
	)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (j *PresenceSweepJob) Stop() {
	<-j.cron.Stop().Done()
}

// Sweep runs one pass and returns the number of teams notified
func (j *PresenceSweepJob) Sweep(ctx context.Context) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	prev := j.lastSweep
	if prev.IsZero() {
		prev = now.Add(-time.Minute)
	}

	// last_seen in [prev-idle, now-idle) went idle during (prev, now]
	members, err := j.repo.ListSeenBetween(ctx, prev.Add(-j.idleAfter), now.Add(-j.idleAfter))
	if err != nil {
		logger.Error(ctx, "Presence sweep query failed", zap.Error(err))
		return 0
	}
	j.lastSweep = now

	teams := lo.Uniq(lo.Map(members, func(m *entities.TeamMember, _ int) uuid.UUID { return m.TeamID }))
	for _, teamID := range teams {
		change := entities.NewChange(entities.TableTeamMembers, entities.ChangeUpdate, teamID, uuid.Nil)
		if err := j.publisher.Publish(ctx, change); err != nil {
			logger.Warn(ctx, "Presence change publish failed", zap.String("team_id", teamID.String()), zap.Error(err))
		}
	}

	if len(teams) > 0 {
		logger.Debug(ctx, "Presence sweep notified teams", zap.Int("teams", len(teams)), zap.Int("members", len(members)))
	}
	return len(teams)
}
