package handlers

import (
	"net/http"

	"homehq/internal/service"
	"homehq/internal/suggest"
	"homehq/internal/validation"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	var req validation.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w)
		return
	}

	input, ferr := req.Validate()
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	task, err := h.taskService.CreateTask(authCtx.Profile.ID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, task)
}

// CreateFromSuggestion handles POST /api/tasks/from-suggestion
func (h *TaskHandler) CreateFromSuggestion(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	var req validation.AcceptSuggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w)
		return
	}

	input, ferr := req.Validate(suggest.KnownID)
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	task, err := h.taskService.CreateFromSuggestion(authCtx.Profile.ID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, task)
}

// List handles GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	q, ferr := validation.ParseTaskListQuery(r.URL.Query())
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	tasks, err := h.taskService.ListTasks(authCtx.Profile.ID, q)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, tasks)
}

// Complete handles POST /api/tasks/{id}/complete. The body may flip the flag
// either way, so reopening a task goes through the same endpoint.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	taskID := r.PathValue("id")
	if _, ferr := validation.ParseID("id", taskID); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	req := validation.CompleteTaskRequest{Completed: true}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondBadJSON(w)
			return
		}
	}

	task, err := h.taskService.SetCompletion(authCtx.Profile.ID, taskID, req.Completed)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	taskID := r.PathValue("id")
	if _, ferr := validation.ParseID("id", taskID); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	if err := h.taskService.DeleteTask(authCtx.Profile.ID, taskID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"deleted": true})
}
