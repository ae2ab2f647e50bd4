package handlers

import (
	"net/http"

	"homehq/internal/service"
	"homehq/internal/validation"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create handles POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	var req validation.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w)
		return
	}

	input, ferr := req.Validate()
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	event, err := h.eventService.CreateEvent(authCtx.Profile.ID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, event)
}

// List handles GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	q, ferr := validation.ParseEventListQuery(r.URL.Query())
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	events, err := h.eventService.ListEvents(authCtx.Profile.ID, q)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, events)
}

// Get handles GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	eventID := r.PathValue("id")
	if _, ferr := validation.ParseID("id", eventID); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	event, err := h.eventService.GetEvent(authCtx.Profile.ID, eventID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, event)
}

// Delete handles DELETE /api/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	eventID := r.PathValue("id")
	if _, ferr := validation.ParseID("id", eventID); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	if err := h.eventService.DeleteEvent(authCtx.Profile.ID, eventID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// Suggestions handles GET /api/events/{id}/suggestions
func (h *EventHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	eventID := r.PathValue("id")
	if _, ferr := validation.ParseID("id", eventID); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	suggestions, err := h.eventService.Suggestions(authCtx.Profile.ID, eventID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, suggestions)
}
