package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/service"
)

// TaskHandler handles task-related API requests. Every operation is scoped
// to the authenticated owner resolved by the auth middleware.
type TaskHandler struct {
	taskService *service.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   newValidator(),
	}
}

// owner extracts the authenticated user from the context, answering the
// uniform 401 when the middleware did not run. This should not happen on a
// correctly wired router; the check is a guard, not a code path.
func (h *TaskHandler) owner(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := shared.GetUser(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("no authenticated user in request context")
		w.Header().Set("WWW-Authenticate", "Bearer")
		shared.RespondWithProblem(w, r, http.StatusUnauthorized,
			"Not Authenticated",
			"Authentication credentials were missing or invalid",
			nil)
		return nil, false
	}
	return user, true
}

// List handles GET /tasks with page/size query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := h.owner(w, r)
	if !ok {
		return
	}

	page, size, fieldErrors := parsePagination(r)
	if len(fieldErrors) > 0 {
		respondValidationProblem(w, r, fieldErrors)
		return
	}

	items, total, pages, err := h.taskService.List(r.Context(), user.ID, page, size)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondPaginated(w, r, newTaskResponses(items), shared.Pagination{
		Page:  page,
		Size:  size,
		Total: total,
		Pages: pages,
	})
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondMalformedBody(w, r)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidationProblem(w, r, validationFieldErrors(err))
		return
	}

	task, err := h.taskService.Create(r.Context(), user.ID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondEnvelope(w, r, http.StatusCreated, newTaskResponse(task))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	task, err := h.taskService.Get(r.Context(), user.ID, id)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondEnvelope(w, r, http.StatusOK, newTaskResponse(task))
}

// Update handles PUT /tasks/{id} with partial-update semantics: only fields
// present in the body change.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req UpdateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondMalformedBody(w, r)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidationProblem(w, r, validationFieldErrors(err))
		return
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}

	task, err := h.taskService.Update(r.Context(), user.ID, id, patch)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondEnvelope(w, r, http.StatusOK, newTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}. Deletion is a soft delete; repeating it
// reports 404 exactly like deleting a task that never existed.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), user.ID, id); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
