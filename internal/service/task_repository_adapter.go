package service

import (
	"context"
	"database/sql"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// taskRepositoryAdapter adapts a store.TaskStore to the TaskRepository
// interface consumed by TaskService, adding transaction orchestration over
// the shared database handle.
type taskRepositoryAdapter struct {
	taskStore store.TaskStore
	db        *sql.DB
}

// NewTaskRepositoryAdapter creates a TaskRepository backed by the given
// task store and database connection.
func NewTaskRepositoryAdapter(taskStore store.TaskStore, db *sql.DB) TaskRepository {
	return &taskRepositoryAdapter{
		taskStore: taskStore,
		db:        db,
	}
}

// Create implements TaskRepository.Create.
func (a *taskRepositoryAdapter) Create(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Create(ctx, task)
}

// GetForOwner implements TaskRepository.GetForOwner.
func (a *taskRepositoryAdapter) GetForOwner(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return a.taskStore.GetForOwner(ctx, ownerID, id)
}

// ListForOwner implements TaskRepository.ListForOwner.
func (a *taskRepositoryAdapter) ListForOwner(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.Task, error) {
	return a.taskStore.ListForOwner(ctx, ownerID, offset, limit)
}

// CountForOwner implements TaskRepository.CountForOwner.
func (a *taskRepositoryAdapter) CountForOwner(ctx context.Context, ownerID int64) (int, error) {
	return a.taskStore.CountForOwner(ctx, ownerID)
}

// Update implements TaskRepository.Update.
func (a *taskRepositoryAdapter) Update(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Update(ctx, task)
}

// Transact implements TaskRepository.Transact by running fn against a
// repository bound to a single database transaction.
func (a *taskRepositoryAdapter) Transact(ctx context.Context, fn func(repo TaskRepository) error) error {
	return store.RunInTransaction(ctx, a.db, func(ctx context.Context, tx *sql.Tx) error {
		txRepo := &taskRepositoryAdapter{
			taskStore: a.taskStore.WithTx(tx),
			db:        a.db,
		}
		return fn(txRepo)
	})
}
