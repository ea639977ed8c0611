package auth

import (
	"context"
	"errors"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// dummyBcryptHash is compared against when the email lookup misses, so a
// login attempt costs one bcrypt comparison whether or not the user exists.
const dummyBcryptHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Authenticator verifies login credentials against the user store.
type Authenticator struct {
	users    store.UserStore
	verifier PasswordVerifier
}

// NewAuthenticator creates an Authenticator with the given dependencies.
func NewAuthenticator(users store.UserStore, verifier PasswordVerifier) *Authenticator {
	return &Authenticator{
		users:    users,
		verifier: verifier,
	}
}

// Authenticate looks up the user by exact email match and verifies the
// password. Unknown email and wrong password both return
// ErrInvalidCredentials; callers cannot tell the two apart.
//
// The active flag is deliberately not checked here. The HTTP boundary
// rejects inactive accounts with a distinct error so that "bad credentials"
// and "inactive account" stay observably different responses.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	// Always run the comparison, against a dummy hash when the lookup
	// missed, so response timing does not reveal whether the email exists.
	hashedPassword := dummyBcryptHash
	if err == nil {
		hashedPassword = user.HashedPassword
	}
	compareErr := a.verifier.Compare(hashedPassword, password)

	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
