package store

import (
	"context"
	"database/sql"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
// Users are provisioned out of band (migrations, seeding); the API itself
// never creates or mutates them.
type UserStore interface {
	// Create saves a new user to the store. The caller must provide a user
	// with the password already hashed.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address. The match is exact
	// and case-sensitive.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
