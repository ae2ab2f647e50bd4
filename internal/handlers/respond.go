package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"homehq/internal/service"
	"homehq/internal/validation"
)

// APIResponse is the uniform envelope every endpoint returns
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError carries the machine-readable failure. Message is safe to show to
// end users; technical detail goes in Details and is never surfaced verbatim.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// timeFormat is how timestamps are rendered on the wire
const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// Error codes of the wire contract.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidPrivateEvent = "INVALID_PRIVATE_EVENT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeEventNotFound       = "EVENT_NOT_FOUND"
	CodeAlreadyInFamily     = "USER_ALREADY_IN_FAMILY"
	CodeConflict            = "CONFLICT"
	CodeDatabaseError       = "DATABASE_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondData writes a success envelope
func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, APIResponse{Success: true, Data: data})
}

// respondError writes a failure envelope
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message, Details: details},
	})
}

// respondFieldError maps a schema violation to the envelope, scoped to the
// first violated field
func respondFieldError(w http.ResponseWriter, ferr *validation.FieldError) {
	code := CodeValidation
	if ferr.Code != "" {
		code = ferr.Code
	}
	respondError(w, http.StatusBadRequest, code, ferr.Message, map[string]interface{}{
		"field": ferr.Field,
	})
}

// respondServiceError translates service-layer errors into wire codes.
// Anything unrecognized is treated as a persistence failure: the user-facing
// message stays generic and the original error moves to the details field.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password", nil)
	case errors.Is(err, service.ErrNoFamily):
		respondError(w, http.StatusForbidden, CodeForbidden, "You must belong to a family to do this", nil)
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, CodeForbidden, "You are not allowed to do this", nil)
	case errors.Is(err, service.ErrInviteInvalid):
		respondError(w, http.StatusForbidden, CodeForbidden, "Invitation is invalid or expired", nil)
	case errors.Is(err, service.ErrAlreadyInFamily):
		respondError(w, http.StatusConflict, CodeAlreadyInFamily, "You already belong to a family", nil)
	case errors.Is(err, service.ErrEmailTaken):
		respondError(w, http.StatusConflict, CodeConflict, "An account with this email already exists", nil)
	case errors.Is(err, service.ErrEventNotFound):
		respondError(w, http.StatusNotFound, CodeEventNotFound, "Event not found", nil)
	case errors.Is(err, service.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, "Task not found", nil)
	case errors.Is(err, service.ErrMemberNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, "Family member not found", nil)
	case errors.Is(err, service.ErrSuggestionNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, "Suggestion not found for this event", nil)
	case errors.Is(err, service.ErrInvalidPrivateEvent):
		respondError(w, http.StatusBadRequest, CodeInvalidPrivateEvent, "A private event can have at most one participant", nil)
	default:
		log.Printf("Unexpected service error: %v", err)
		respondError(w, http.StatusInternalServerError, CodeDatabaseError, "Something went wrong, please try again",
			map[string]interface{}{"cause": err.Error()})
	}
}

// decodeJSON parses a request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// respondBadJSON reports an unparseable request body
func respondBadJSON(w http.ResponseWriter) {
	respondError(w, http.StatusBadRequest, CodeValidation, "Request body must be valid JSON", nil)
}
