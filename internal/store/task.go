package store

import (
	"context"
	"database/sql"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// TaskStore defines the interface for task data persistence. Every read and
// mutation is scoped to an owner and excludes soft-deleted rows, so a task
// that is deleted or owned by someone else behaves as if it never existed.
type TaskStore interface {
	// Create saves a new task to the store and fills in its server-assigned
	// ID. Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner retrieves a task by ID, constrained to the given owner and
	// to tasks that are not soft-deleted.
	// Returns ErrTaskNotFound when the task is absent, deleted, or owned by
	// a different user.
	GetForOwner(ctx context.Context, ownerID, id int64) (*domain.Task, error)

	// ListForOwner returns a page of the owner's live tasks ordered by
	// created_at descending with id ascending as the stable tiebreak.
	ListForOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Task, error)

	// CountForOwner returns the number of the owner's live tasks, ignoring
	// any paging.
	CountForOwner(ctx context.Context, ownerID int64) (int, error)

	// Update persists the mutable fields of an existing task (title,
	// description, status, updated_at, and the soft-delete columns).
	// Returns ErrTaskNotFound if no row matches the task's ID and owner.
	Update(ctx context.Context, task *domain.Task) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
