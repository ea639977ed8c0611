package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/redact"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// AuthMiddleware resolves the bearer token on protected routes to the
// calling user's identity.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// Authenticate validates the Authorization header, resolves the token's
// subject to a stored user, and places that user in the request context.
//
// Every failure mode (missing header, malformed header, invalid or expired
// token, unknown subject) produces the same 401 response. A distinct error
// per sub-step would let a caller probe which accounts exist.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondNotAuthenticated(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondNotAuthenticated(w, r)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			respondNotAuthenticated(w, r)
			return
		}

		user, err := m.users.GetByEmail(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondNotAuthenticated(w, r)
				return
			}
			log.Error("failed to load user for token subject",
				"error", redact.Error(err))
			shared.RespondWithProblem(w, r, http.StatusInternalServerError,
				"Internal Server Error",
				"An unexpected error occurred. Please try again later.",
				nil)
			return
		}

		ctx := shared.WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUser extracts the authenticated user from the request context.
// Returns the user and a boolean indicating if one was found.
func GetUser(r *http.Request) (*domain.User, bool) {
	return shared.GetUser(r.Context())
}

// respondNotAuthenticated writes the uniform 401 used for every
// authentication failure on protected routes.
func respondNotAuthenticated(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	shared.RespondWithProblem(w, r, http.StatusUnauthorized,
		"Not Authenticated",
		"Authentication credentials were missing or invalid",
		nil)
}
