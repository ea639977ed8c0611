package domain

import (
	"errors"
	"strings"
	"time"
)

// Task validation errors.
var (
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")
	ErrEmptyOwnerID   = errors.New("task owner ID cannot be empty")
)

// TaskStatus is the label attached to a task. There is no enforced
// transition graph; any valid status can be set at any time via update.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task represents a unit of work owned by exactly one user. The owner never
// changes after creation. Deleted tasks stay in storage with IsDeleted set
// and are invisible to every read and mutation.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	IsDeleted   bool       `json:"-"`
	DeletedAt   *time.Time `json:"-"`
}

// NewTask creates a new Task for the given owner. The status defaults to
// pending when empty. The ID is assigned by the store on creation.
// Returns an error if validation fails.
func NewTask(ownerID int64, title, description string, status TaskStatus) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}

	now := time.Now().UTC()
	task := &Task{
		Title:       title,
		Description: description,
		Status:      status,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}
	if t.OwnerID == 0 {
		return ErrEmptyOwnerID
	}
	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}
	// DeletedAt is set exactly when the deleted flag is.
	if t.IsDeleted != (t.DeletedAt != nil) {
		return errors.New("deleted_at must be set if and only if the task is deleted")
	}
	return nil
}
