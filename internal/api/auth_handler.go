package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/redact"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authenticator *auth.Authenticator
	jwtService    auth.JWTService
	validator     *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authenticator *auth.Authenticator, jwtService auth.JWTService) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		jwtService:    jwtService,
		validator:     newValidator(),
	}
}

// Login handles the /auth/login endpoint. Bad credentials answer 401 whether
// the email is unknown or the password wrong; an inactive account with
// correct credentials answers 403, so the two failure modes stay observably
// different.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondMalformedBody(w, r)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidationProblem(w, r, validationFieldErrors(err))
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			shared.RespondWithProblem(w, r, http.StatusUnauthorized,
				"Unauthorized", "Incorrect email or password", nil)
			return
		}
		log.Error("failed to authenticate user", "error", redact.Error(err))
		HandleServiceError(w, r, err)
		return
	}

	if !user.IsActive {
		shared.RespondWithProblem(w, r, http.StatusForbidden,
			"Forbidden", "Inactive user", nil)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.Email)
	if err != nil {
		log.Error("failed to generate token", "error", redact.Error(err), "user_id", user.ID)
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondEnvelope(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
