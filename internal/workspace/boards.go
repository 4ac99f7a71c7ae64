package workspace

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/pkg/logger"
)

// Feed delivers realtime changes for one (table, team) pair
type Feed interface {
	Subscribe(table string, teamID uuid.UUID) (<-chan entities.Change, func())
}

type TaskService interface {
	ListTasks(ctx context.Context, scope entities.TeamScope, filter entities.TaskFilter) ([]*entities.Task, int64, error)
	UpdateTaskStatus(ctx context.Context, scope entities.TeamScope, id uuid.UUID, status entities.TaskStatus) (*entities.Task, error)
}

type NoteService interface {
	ListNotes(ctx context.Context, scope entities.TeamScope) ([]*entities.Note, error)
}

// TaskBoard is the cached task list of one team
type TaskBoard struct {
	scope  entities.TeamScope
	svc    TaskService
	filter entities.TaskFilter
	tasks  *Optimistic[[]entities.Task]
}

func NewTaskBoard(scope entities.TeamScope, svc TaskService, filter entities.TaskFilter) *TaskBoard {
	return &TaskBoard{scope: scope, svc: svc, filter: filter, tasks: NewOptimistic([]entities.Task{})}
}

// Load replaces the cached list with a fresh fetch
func (b *TaskBoard) Load(ctx context.Context) error {
	tasks, _, err := b.svc.ListTasks(ctx, b.scope, b.filter)
	if err != nil {
		return err
	}
	b.tasks.Set(lo.Map(tasks, func(t *entities.Task, _ int) entities.Task { return *t }))
	return nil
}

// Tasks returns a copy of the cached list
func (b *TaskBoard) Tasks() []entities.Task {
	return append([]entities.Task(nil), b.tasks.Get()...)
}

// ToggleTask flips a task between completed and pending. The board shows the
// new status right away and reverts if the server rejects the change.
func (b *TaskBoard) ToggleTask(ctx context.Context, id uuid.UUID) error {
	current, ok := lo.Find(b.tasks.Get(), func(t entities.Task) bool { return t.ID == id })
	if !ok {
		return domainerrors.NotFound("task not found")
	}
	prev, next := current.Status, current.Status.Toggled()

	return b.tasks.Mutate(ctx,
		func(tasks []entities.Task) []entities.Task {
			return setTaskStatus(tasks, id, prev, next)
		},
		func(tasks []entities.Task) []entities.Task {
			return setTaskStatus(tasks, id, next, prev)
		},
		func(ctx context.Context) error {
			_, err := b.svc.UpdateTaskStatus(ctx, b.scope, id, next)
			return err
		},
	)
}

// setTaskStatus returns a copy of tasks with task id moved from one status to
// another. A task no longer showing from is left alone.
func setTaskStatus(tasks []entities.Task, id uuid.UUID, from, to entities.TaskStatus) []entities.Task {
	return lo.Map(tasks, func(t entities.Task, _ int) entities.Task {
		if t.ID == id && t.Status == from {
			t.Status = to
		}
		return t
	})
}

// Watch reloads the board on every task change of the team until ctx ends.
// onChange, when set, runs after each successful reload.
func (b *TaskBoard) Watch(ctx context.Context, feed Feed, onChange func()) {
	watch(ctx, feed, entities.TableTasks, b.scope.TeamID, b.Load, onChange)
}

// NoteBoard is the cached note list of one team
type NoteBoard struct {
	scope entities.TeamScope
	svc   NoteService
	notes *Optimistic[[]entities.Note]
}

func NewNoteBoard(scope entities.TeamScope, svc NoteService) *NoteBoard {
	return &NoteBoard{scope: scope, svc: svc, notes: NewOptimistic([]entities.Note{})}
}

func (b *NoteBoard) Load(ctx context.Context) error {
	notes, err := b.svc.ListNotes(ctx, b.scope)
	if err != nil {
		return err
	}
	b.notes.Set(lo.Map(notes, func(n *entities.Note, _ int) entities.Note { return *n }))
	return nil
}

func (b *NoteBoard) Notes() []entities.Note {
	return append([]entities.Note(nil), b.notes.Get()...)
}

func (b *NoteBoard) Watch(ctx context.Context, feed Feed, onChange func()) {
	watch(ctx, feed, entities.TableNotes, b.scope.TeamID, b.Load, onChange)
}

// watch re-fetches on any event. Events that queue up while a reload runs
// are drained first so a burst costs one fetch.
func watch(ctx context.Context, feed Feed, table string, teamID uuid.UUID, reload func(context.Context) error, onChange func()) {
	changes, unsubscribe := feed.Subscribe(table, teamID)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
		}

	drain:
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					break drain
				}
			default:
				break drain
			}
		}

		if err := reload(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn(ctx, "Reload after change failed", zap.String("table", table), zap.Error(err))
			continue
		}
		if onChange != nil {
			onChange()
		}
	}
}
