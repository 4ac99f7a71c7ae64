package usecases

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/domain/repositories"
	"sprintos.backend/pkg/logger"
)

const (
	// SummarySystemPrompt instructs the model; the last sentence keeps replies parseable by ParseActionItems.
	SummarySystemPrompt = "You are a helpful assistant that summarizes meeting notes and extracts actionable items. " +
		"Format your response with a summary section followed by a list of action items. " +
		"Start the list with an \"Action Items:\" line and number each item."
	// SummaryUserPrefix precedes the joined notes in the user message
	SummaryUserPrefix = "Summarize the following notes and extract action items:\n\n"
	// FallbackSummary is stored when the chat service cannot be used
	FallbackSummary = "**Summary:**\nThis meeting covered key project topics and team coordination.\n\n" +
		"**Action Items:**\n1. Review technical requirements\n2. Update task assignments\n3. Schedule follow-up meeting\n\n" +
		"(Note: This is a fallback summary. Please configure ChatAnywhere API key for AI-powered summaries.)"
)

// Completer produces a chat completion for a system + user message pair
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// SummaryUsecase turns a team's notes into a stored AI summary and action items
type SummaryUsecase struct {
	noteRepo    repositories.NoteRepository
	summaryRepo repositories.SummaryRepository
	tasks       *TaskUsecase
	completer   Completer
	publisher   ChangePublisher
}

// NewSummaryUsecase creates a new summary usecase
func NewSummaryUsecase(
	noteRepo repositories.NoteRepository,
	summaryRepo repositories.SummaryRepository,
	tasks *TaskUsecase,
	completer Completer,
	publisher ChangePublisher,
) *SummaryUsecase {
	return &SummaryUsecase{
		noteRepo:    noteRepo,
		summaryRepo: summaryRepo,
		tasks:       tasks,
		completer:   completer,
		publisher:   publisher,
	}
}

// GenerateSummary summarizes every note of the scoped team. Chat failures
// fall back to FallbackSummary with Success=false; only storage errors are returned.
func (u *SummaryUsecase) GenerateSummary(ctx context.Context, scope entities.TeamScope) (*entities.SummaryResult, error) {
	notes, err := u.noteRepo.ListByTeam(ctx, scope.TeamID)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, domainerrors.ErrNoNotes
	}

	joined := strings.Join(lo.Map(notes, func(n *entities.Note, _ int) string { return n.Content }), entities.NoteSeparator)

	text, success := u.complete(ctx, joined)

	summary := &entities.AISummary{
		TeamID:      scope.TeamID,
		SummaryText: text,
		ActionItems: ParseActionItems(text),
		CreatedBy:   scope.UserID,
	}
	if err := u.summaryRepo.Create(ctx, summary); err != nil {
		return nil, err
	}

	notify(ctx, u.publisher, entities.TableAISummaries, entities.ChangeInsert, scope.TeamID, summary.ID)
	logger.Info(ctx, "Summary generated",
		zap.String("team_id", scope.TeamID.String()),
		zap.Int("notes", len(notes)),
		zap.Int("action_items", len(summary.ActionItems)),
		zap.Bool("ai", success),
	)
	return &entities.SummaryResult{Summary: summary, Success: success}, nil
}

func (u *SummaryUsecase) complete(ctx context.Context, notes string) (string, bool) {
	if u.completer == nil {
		summaryOutcomes.WithLabelValues(outcomeFallback).Inc()
		return FallbackSummary, false
	}

	text, err := u.completer.Complete(ctx, SummarySystemPrompt, SummaryUserPrefix+notes)
	if err != nil {
		logger.Warn(ctx, "AI summary failed, using fallback", zap.Error(err))
		summaryOutcomes.WithLabelValues(outcomeFallback).Inc()
		return FallbackSummary, false
	}

	summaryOutcomes.WithLabelValues(outcomeAI).Inc()
	return text, true
}

// LatestSummary returns the newest summary of the scoped team
func (u *SummaryUsecase) LatestSummary(ctx context.Context, scope entities.TeamScope) (*entities.AISummary, error) {
	return u.summaryRepo.GetLatestByTeam(ctx, scope.TeamID)
}

// ConvertToTask creates a pending, unassigned task titled after an action item
func (u *SummaryUsecase) ConvertToTask(ctx context.Context, scope entities.TeamScope, actionItem string) (*entities.Task, error) {
	title := strings.TrimSpace(actionItem)
	if title == "" {
		return nil, domainerrors.BadRequest("action item is required")
	}
	return u.tasks.CreateTask(ctx, scope, &entities.TaskInput{
		Title:  title,
		Status: entities.TaskStatusPending,
	})
}
