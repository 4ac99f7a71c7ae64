package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"sprintos.backend/internal/domain/entities"
	domainerrors "sprintos.backend/internal/domain/errors"
	"sprintos.backend/internal/domain/repositories"
)

// TaskUsecase handles team task boards
type TaskUsecase struct {
	taskRepo   repositories.TaskRepository
	memberRepo repositories.TeamMemberRepository
	publisher  ChangePublisher
}

// NewTaskUsecase creates a new task usecase
func NewTaskUsecase(taskRepo repositories.TaskRepository, memberRepo repositories.TeamMemberRepository, publisher ChangePublisher) *TaskUsecase {
	return &TaskUsecase{taskRepo: taskRepo, memberRepo: memberRepo, publisher: publisher}
}

func (u *TaskUsecase) validateInput(ctx context.Context, scope entities.TeamScope, input *entities.TaskInput) (*entities.TaskInput, error) {
	out := *input
	out.Title = strings.TrimSpace(input.Title)
	if out.Title == "" {
		return nil, domainerrors.BadRequest("title is required")
	}
	if out.Status == "" {
		out.Status = entities.TaskStatusPending
	}
	if !out.Status.IsValid() {
		return nil, domainerrors.BadRequest("invalid task status")
	}

	if out.AssignedTo != nil && *out.AssignedTo != uuid.Nil {
		if _, err := u.memberRepo.Get(ctx, scope.TeamID, *out.AssignedTo); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.BadRequest("assignee must be a member of the team")
			}
			return nil, err
		}
	}
	return &out, nil
}

func applyTaskInput(task *entities.Task, input *entities.TaskInput) {
	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.AssignedTo = null.String{}
	if input.AssignedTo != nil && *input.AssignedTo != uuid.Nil {
		task.AssignedTo = null.StringFrom(input.AssignedTo.String())
	}
	task.Deadline = null.TimeFromPtr(input.Deadline)
}

// CreateTask adds a task to the scoped team
func (u *TaskUsecase) CreateTask(ctx context.Context, scope entities.TeamScope, input *entities.TaskInput) (*entities.Task, error) {
	in, err := u.validateInput(ctx, scope, input)
	if err != nil {
		return nil, err
	}

	task := &entities.Task{TeamID: scope.TeamID, CreatedBy: scope.UserID}
	applyTaskInput(task, in)
	if err := u.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	notify(ctx, u.publisher, entities.TableTasks, entities.ChangeInsert, scope.TeamID, task.ID)
	return task, nil
}

// ListTasks returns the team's tasks newest first with the total count
func (u *TaskUsecase) ListTasks(ctx context.Context, scope entities.TeamScope, filter entities.TaskFilter) ([]*entities.Task, int64, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, domainerrors.BadRequest("invalid task status")
	}
	return u.taskRepo.ListByTeam(ctx, scope.TeamID, filter)
}

// GetTask returns a task of the scoped team. Tasks of other teams are reported as not found.
func (u *TaskUsecase) GetTask(ctx context.Context, scope entities.TeamScope, id uuid.UUID) (*entities.Task, error) {
	task, err := u.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.TeamID != scope.TeamID {
		return nil, domainerrors.NotFound("task not found")
	}
	return task, nil
}

// UpdateTask replaces the editable fields of a task
func (u *TaskUsecase) UpdateTask(ctx context.Context, scope entities.TeamScope, id uuid.UUID, input *entities.TaskInput) (*entities.Task, error) {
	task, err := u.GetTask(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	in, err := u.validateInput(ctx, scope, input)
	if err != nil {
		return nil, err
	}

	applyTaskInput(task, in)
	if err := u.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	notify(ctx, u.publisher, entities.TableTasks, entities.ChangeUpdate, scope.TeamID, task.ID)
	return task, nil
}

// UpdateTaskStatus moves a task to status
func (u *TaskUsecase) UpdateTaskStatus(ctx context.Context, scope entities.TeamScope, id uuid.UUID, status entities.TaskStatus) (*entities.Task, error) {
	if !status.IsValid() {
		return nil, domainerrors.BadRequest("invalid task status")
	}
	task, err := u.GetTask(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if task.Status == status {
		return task, nil
	}

	if err := u.taskRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	task.Status = status

	notify(ctx, u.publisher, entities.TableTasks, entities.ChangeUpdate, scope.TeamID, task.ID)
	return task, nil
}

// DeleteTask removes a task
func (u *TaskUsecase) DeleteTask(ctx context.Context, scope entities.TeamScope, id uuid.UUID) error {
	if _, err := u.GetTask(ctx, scope, id); err != nil {
		return err
	}
	if err := u.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	notify(ctx, u.publisher, entities.TableTasks, entities.ChangeDelete, scope.TeamID, id)
	return nil
}
