package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"homehq/internal/service"
	"homehq/internal/validation"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestRespondData(t *testing.T) {
	rec := httptest.NewRecorder()
	respondData(rec, http.StatusCreated, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	resp := decodeEnvelope(t, rec)
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Error != nil {
		t.Errorf("error = %+v, want nil", resp.Error)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok || data["id"] != "abc" {
		t.Errorf("data = %+v, want id abc", resp.Data)
	}
}

func TestRespondFieldError(t *testing.T) {
	t.Run("default code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respondFieldError(rec, &validation.FieldError{Field: "title", Message: "title is required"})

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		resp := decodeEnvelope(t, rec)
		if resp.Success {
			t.Error("success = true, want false")
		}
		if resp.Error == nil || resp.Error.Code != CodeValidation {
			t.Fatalf("error = %+v, want code %s", resp.Error, CodeValidation)
		}
		if resp.Error.Details["field"] != "title" {
			t.Errorf("details = %+v, want field title", resp.Error.Details)
		}
	})

	t.Run("carried code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respondFieldError(rec, &validation.FieldError{
			Field:   "participant_ids",
			Message: "a private event can have at most one participant",
			Code:    CodeInvalidPrivateEvent,
		})

		resp := decodeEnvelope(t, rec)
		if resp.Error == nil || resp.Error.Code != CodeInvalidPrivateEvent {
			t.Fatalf("error = %+v, want code %s", resp.Error, CodeInvalidPrivateEvent)
		}
	})
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unauthenticated",
			err:        service.ErrUnauthenticated,
			wantStatus: http.StatusUnauthorized,
			wantCode:   CodeUnauthorized,
		},
		{
			name:       "bad credentials",
			err:        service.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantCode:   CodeUnauthorized,
		},
		{
			name:       "no family",
			err:        service.ErrNoFamily,
			wantStatus: http.StatusForbidden,
			wantCode:   CodeForbidden,
		},
		{
			name:       "forbidden",
			err:        service.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantCode:   CodeForbidden,
		},
		{
			name:       "invalid invite",
			err:        service.ErrInviteInvalid,
			wantStatus: http.StatusForbidden,
			wantCode:   CodeForbidden,
		},
		{
			name:       "already in family",
			err:        service.ErrAlreadyInFamily,
			wantStatus: http.StatusConflict,
			wantCode:   CodeAlreadyInFamily,
		},
		{
			name:       "email taken",
			err:        service.ErrEmailTaken,
			wantStatus: http.StatusConflict,
			wantCode:   CodeConflict,
		},
		{
			name:       "event not found",
			err:        service.ErrEventNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   CodeEventNotFound,
		},
		{
			name:       "task not found",
			err:        service.ErrTaskNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
		},
		{
			name:       "member not found",
			err:        service.ErrMemberNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
		},
		{
			name:       "suggestion not found",
			err:        service.ErrSuggestionNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
		},
		{
			name:       "invalid private event",
			err:        service.ErrInvalidPrivateEvent,
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidPrivateEvent,
		},
		{
			name:       "wrapped sentinel",
			err:        errors.Join(errors.New("context"), service.ErrEventNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   CodeEventNotFound,
		},
		{
			name:       "unknown error",
			err:        errors.New("db exploded"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Success {
				t.Error("success = true, want false")
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestRespondServiceErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, errors.New("pq: connection refused"))

	resp := decodeEnvelope(t, rec)
	if resp.Error == nil {
		t.Fatal("error missing")
	}
	if resp.Error.Message == "pq: connection refused" {
		t.Error("raw error leaked into the user-facing message")
	}
	if resp.Error.Details["cause"] != "pq: connection refused" {
		t.Errorf("details = %+v, want the cause preserved", resp.Error.Details)
	}
}
