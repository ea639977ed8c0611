// Package service implements the application's business logic on top of the
// persistence interfaces defined in the store package.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
)

// TaskRepository defines the persistence operations the task service needs.
// The interface lives with its consumer; the postgres-backed implementation
// is provided by NewTaskRepositoryAdapter.
type TaskRepository interface {
	// Create saves a new task and fills in its server-assigned ID.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner retrieves a live (not soft-deleted) task owned by ownerID.
	GetForOwner(ctx context.Context, ownerID, id int64) (*domain.Task, error)

	// ListForOwner returns a slice of the owner's live tasks ordered newest
	// first with id ascending as the tiebreak.
	ListForOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Task, error)

	// CountForOwner returns the owner's live task count, ignoring paging.
	CountForOwner(ctx context.Context, ownerID int64) (int, error)

	// Update persists the mutable fields of an existing task.
	Update(ctx context.Context, task *domain.Task) error

	// Transact runs fn against a repository view bound to a single
	// transaction, so a read-modify-write on one task serializes against
	// concurrent mutations of the same row.
	Transact(ctx context.Context, fn func(repo TaskRepository) error) error
}

// CreateTaskInput carries the caller-supplied fields for task creation. The
// owner is never part of the input; it is forced from the authenticated
// identity.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
}

// TaskPatch carries a partial update. Only non-nil fields are applied;
// everything else is left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
}

// TaskService provides ownership-scoped task operations with soft-delete
// semantics. A task that is deleted or owned by another user is reported as
// absent, never as forbidden.
type TaskService struct {
	tasks  TaskRepository
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if the repository is nil.
func NewTaskService(tasks TaskRepository, log *slog.Logger) (*TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskService{
		tasks:  tasks,
		logger: log.With(slog.String("component", "task_service")),
	}, nil
}

// List returns one page of the owner's live tasks plus the total matching
// count and the number of pages. The HTTP boundary enforces page >= 1 and
// 1 <= size <= 100; the page computation still guards against size == 0
// rather than dividing by zero.
func (s *TaskService) List(
	ctx context.Context,
	ownerID int64,
	page, size int,
) (items []*domain.Task, total, pages int, err error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	total, err = s.tasks.CountForOwner(ctx, ownerID)
	if err != nil {
		log.Error("failed to count tasks", "error", err, "owner_id", ownerID)
		return nil, 0, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	offset := (page - 1) * size
	items, err = s.tasks.ListForOwner(ctx, ownerID, offset, size)
	if err != nil {
		log.Error("failed to list tasks", "error", err, "owner_id", ownerID)
		return nil, 0, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	if size > 0 {
		pages = (total + size - 1) / size
	}

	return items, total, pages, nil
}

// Create makes a new task owned by ownerID. The title is required and must
// not be blank; the status defaults to pending when empty.
func (s *TaskService) Create(ctx context.Context, ownerID int64, in CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, in.Title, in.Description, in.Status)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"owner_id", ownerID,
		"status", string(task.Status))
	return task, nil
}

// Get retrieves one of the owner's live tasks.
// Returns store.ErrTaskNotFound when the task is absent, soft-deleted, or
// owned by a different user.
func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return s.tasks.GetForOwner(ctx, ownerID, id)
}

// Update applies a partial update to one of the owner's live tasks. Only
// fields present in the patch change; updated_at is refreshed. The
// read-modify-write runs in a single transaction so concurrent updates of
// the same task serialize (last committed write wins).
// Returns store.ErrTaskNotFound under the same conditions as Get.
func (s *TaskService) Update(ctx context.Context, ownerID, id int64, patch TaskPatch) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.NewValidationError("title", "cannot be blank", domain.ErrValidation)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, domain.NewValidationError("status", "must be one of pending, in_progress, done", domain.ErrInvalidTaskStatus)
	}

	var updated *domain.Task
	err := s.tasks.Transact(ctx, func(repo TaskRepository) error {
		task, err := repo.GetForOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.Status != nil {
			task.Status = *patch.Status
		}
		task.UpdatedAt = time.Now().UTC()

		if err := repo.Update(ctx, task); err != nil {
			return err
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task updated", "task_id", id, "owner_id", ownerID)
	return updated, nil
}

// Delete soft-deletes one of the owner's live tasks, setting the deleted
// flag and timestamp. The row is never physically removed. Deleting an
// already-deleted task returns store.ErrTaskNotFound, exactly like deleting
// a task that never existed.
func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tasks.Transact(ctx, func(repo TaskRepository) error {
		task, err := repo.GetForOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		task.IsDeleted = true
		task.DeletedAt = &now
		task.UpdatedAt = now

		return repo.Update(ctx, task)
	})
	if err != nil {
		return err
	}

	log.Info("task soft-deleted", "task_id", id, "owner_id", ownerID)
	return nil
}
