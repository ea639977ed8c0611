package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserStore is an in-memory store.UserStore keyed by email.
type fakeUserStore struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return f
}

func newFakeUserStore(t *testing.T, users ...*domain.User) *fakeUserStore {
	t.Helper()
	f := &fakeUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	active := &domain.User{
		ID:             1,
		Email:          "active@example.com",
		HashedPassword: hashPassword(t, "s3cret-pass"),
		IsActive:       true,
	}
	inactive := &domain.User{
		ID:             2,
		Email:          "inactive@example.com",
		HashedPassword: hashPassword(t, "s3cret-pass"),
		IsActive:       false,
	}

	verifier := NewBcryptVerifier()

	t.Run("valid credentials return the user", func(t *testing.T) {
		t.Parallel()
		authenticator := NewAuthenticator(newFakeUserStore(t, active), verifier)

		user, err := authenticator.Authenticate(context.Background(), "active@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, active.ID, user.ID)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		t.Parallel()
		authenticator := NewAuthenticator(newFakeUserStore(t, active), verifier)

		user, err := authenticator.Authenticate(context.Background(), "active@example.com", "wrong-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, user)
	})

	t.Run("unknown email fails with the same error", func(t *testing.T) {
		t.Parallel()
		authenticator := NewAuthenticator(newFakeUserStore(t, active), verifier)

		user, err := authenticator.Authenticate(context.Background(), "nobody@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, user)
	})

	t.Run("email match is exact", func(t *testing.T) {
		t.Parallel()
		authenticator := NewAuthenticator(newFakeUserStore(t, active), verifier)

		user, err := authenticator.Authenticate(context.Background(), "Active@Example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, user)
	})

	t.Run("inactive user with valid credentials is returned", func(t *testing.T) {
		t.Parallel()
		// The active flag is the HTTP boundary's concern, not this one's.
		authenticator := NewAuthenticator(newFakeUserStore(t, inactive), verifier)

		user, err := authenticator.Authenticate(context.Background(), "inactive@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.False(t, user.IsActive)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		t.Parallel()
		storeErr := errors.New("connection refused")
		users := newFakeUserStore(t)
		users.err = storeErr
		authenticator := NewAuthenticator(users, verifier)

		user, err := authenticator.Authenticate(context.Background(), "active@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, user)
	})
}
