package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-api/internal/api/middleware"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/service"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-that-is-long-enough-for-testing"

// memoryUserStore is an in-memory store.UserStore for handler tests.
type memoryUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*domain.User)}
}

func (s *memoryUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return store.ErrEmailExists
	}
	user.ID = int64(len(s.users) + 1)
	s.users[user.Email] = user
	return nil
}

func (s *memoryUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *memoryUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}

// memoryTaskRepository is an in-memory service.TaskRepository mirroring the
// postgres visibility rules.
type memoryTaskRepository struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*domain.Task
}

func newMemoryTaskRepository() *memoryTaskRepository {
	return &memoryTaskRepository{
		nextID: 1,
		tasks:  make(map[int64]*domain.Task),
	}
}

func (r *memoryTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = r.nextID
	r.nextID++
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *memoryTaskRepository) GetForOwner(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID || task.IsDeleted {
		return nil, store.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (r *memoryTaskRepository) ListForOwner(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := r.liveLocked(ownerID)
	if offset >= len(live) {
		return nil, nil
	}
	end := offset + limit
	if end > len(live) {
		end = len(live)
	}

	out := make([]*domain.Task, 0, end-offset)
	for _, task := range live[offset:end] {
		clone := *task
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memoryTaskRepository) liveLocked(ownerID int64) []*domain.Task {
	var live []*domain.Task
	for _, task := range r.tasks {
		if task.OwnerID == ownerID && !task.IsDeleted {
			live = append(live, task)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if !live[i].CreatedAt.Equal(live[j].CreatedAt) {
			return live[i].CreatedAt.After(live[j].CreatedAt)
		}
		return live[i].ID < live[j].ID
	})
	return live
}

func (r *memoryTaskRepository) CountForOwner(ctx context.Context, ownerID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.liveLocked(ownerID)), nil
}

func (r *memoryTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *memoryTaskRepository) Transact(
	ctx context.Context,
	fn func(repo service.TaskRepository) error,
) error {
	return fn(r)
}

// testEnv bundles everything a handler test needs: a fully wired router and
// direct access to the backing fakes.
type testEnv struct {
	router     http.Handler
	users      *memoryUserStore
	tasks      *memoryTaskRepository
	jwtService auth.JWTService
}

// newTestEnv wires the same middleware and routes as the server binary, on
// top of in-memory stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newMemoryUserStore()
	tasks := newMemoryTaskRepository()

	jwtService := auth.NewTestJWTService(testJWTSecret, 30*time.Minute, nil)
	authenticator := auth.NewAuthenticator(users, auth.NewBcryptVerifier())

	taskService, err := service.NewTaskService(tasks, nil)
	require.NoError(t, err)

	authHandler := NewAuthHandler(authenticator, jwtService)
	taskHandler := NewTaskHandler(taskService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, users)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
			})
		})
	})

	return &testEnv{
		router:     r,
		users:      users,
		tasks:      tasks,
		jwtService: jwtService,
	}
}

// addUser seeds a user with a bcrypt-hashed password and returns it.
func (e *testEnv) addUser(t *testing.T, email, password string, active bool) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := &domain.User{
		Email:          email,
		HashedPassword: string(hash),
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

// tokenFor issues a valid access token for the given user.
func (e *testEnv) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := e.jwtService.GenerateToken(context.Background(), user.Email)
	require.NoError(t, err)
	return token
}

// doRequest performs an HTTP request against the test router. A non-empty
// token is sent as a bearer Authorization header.
func (e *testEnv) doRequest(
	t *testing.T,
	method, target, token string,
	body interface{},
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewBuffer(encoded)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorded response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// decodeProblem unmarshals a problem-details body.
func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) shared.ProblemDetails {
	t.Helper()
	var problem shared.ProblemDetails
	decodeBody(t, rec, &problem)
	return problem
}
