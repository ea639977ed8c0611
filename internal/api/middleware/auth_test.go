package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// stubUserStore serves a single user by email.
type stubUserStore struct {
	user *domain.User
}

func (s *stubUserStore) Create(ctx context.Context, user *domain.User) error { return nil }

func (s *stubUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	const secret = "test-secret-that-is-long-enough-for-testing"
	lifetime := 30 * time.Minute

	user := &domain.User{ID: 1, Email: "user@example.com", IsActive: true}
	users := &stubUserStore{user: user}

	jwtService := auth.NewTestJWTService(secret, lifetime, nil)
	mw := NewAuthMiddleware(jwtService, users)

	protected := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxUser, ok := shared.GetUser(r.Context())
		require.True(t, ok)
		assert.Equal(t, user.ID, ctxUser.ID)
		w.WriteHeader(http.StatusOK)
	}))

	validToken := func(t *testing.T) string {
		t.Helper()
		token, err := jwtService.GenerateToken(context.Background(), user.Email)
		require.NoError(t, err)
		return token
	}

	expiredToken := func(t *testing.T) string {
		t.Helper()
		past := time.Now().Add(-2 * lifetime)
		expiredSvc := auth.NewTestJWTService(secret, lifetime, func() time.Time { return past })
		token, err := expiredSvc.GenerateToken(context.Background(), user.Email)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name       string
		authHeader func(t *testing.T) string
		wantStatus int
	}{
		{
			name:       "valid bearer token",
			authHeader: func(t *testing.T) string { return "Bearer " + validToken(t) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "scheme is case-insensitive",
			authHeader: func(t *testing.T) string { return "bearer " + validToken(t) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			authHeader: func(t *testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: func(t *testing.T) string { return "Basic " + validToken(t) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token without scheme",
			authHeader: func(t *testing.T) string { return validToken(t) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: func(t *testing.T) string { return "Bearer " + expiredToken(t) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "token for unknown user",
			authHeader: func(t *testing.T) string {
				token, err := jwtService.GenerateToken(context.Background(), "ghost@example.com")
				require.NoError(t, err)
				return "Bearer " + token
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			if header := tt.authHeader(t); header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
