package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// TaskStatus represents the lifecycle of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every valid status
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// IsValid reports whether s is a known status
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Toggled returns the checkbox transition: completed tasks go back to pending, anything else completes.
func (s TaskStatus) Toggled() TaskStatus {
	if s == TaskStatusCompleted {
		return TaskStatusPending
	}
	return TaskStatusCompleted
}

type Task struct {
	ID          uuid.UUID   `json:"id"`
	TeamID      uuid.UUID   `json:"teamId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      TaskStatus  `json:"status"`
	AssignedTo  null.String `json:"assignedTo"`
	Deadline    null.Time   `json:"deadline"`
	CreatedBy   uuid.UUID   `json:"createdBy"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// TaskFilter narrows task listings. Limit 0 returns every task.
type TaskFilter struct {
	Status TaskStatus
	Limit  int
	Offset int
}

// TaskInput is used for both create and full update
type TaskInput struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status" binding:"omitempty,task_status"`
	AssignedTo  *uuid.UUID `json:"assignedTo"`
	Deadline    *time.Time `json:"deadline"`
}

// UpdateTaskStatusInput changes only the status
type UpdateTaskStatusInput struct {
	Status TaskStatus `json:"status" binding:"required,task_status"`
}
