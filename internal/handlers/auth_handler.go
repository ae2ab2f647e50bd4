package handlers

import (
	"net/http"

	"homehq/internal/models"
	"homehq/internal/security"
	"homehq/internal/service"
	"homehq/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// sessionResponse is the body returned by every sign-in path
type sessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expires_at"`
	Profile   *models.Profile `json:"profile"`
}

func newSessionResponse(profile *models.Profile, session *models.Session) sessionResponse {
	return sessionResponse{
		Token:     session.ID,
		ExpiresAt: session.ExpiresAt.UTC().Format(timeFormat),
		Profile:   profile,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w)
		return
	}

	input, ferr := req.Validate()
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	profile, session, err := h.authService.Register(input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, newSessionResponse(profile, session))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w)
		return
	}

	if _, ferr := req.Validate(); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	profile, session, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, newSessionResponse(profile, session))
}

// GoogleLogin handles POST /api/auth/oauth/google. The client sends the
// authorization code it got back from Google's consent screen.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w)
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, CodeValidation, "code is required", map[string]interface{}{"field": "code"})
		return
	}

	profile, session, err := h.authService.LoginWithGoogle(r.Context(), req.Code)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, newSessionResponse(profile, session))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := security.BearerToken(r)
	if token == "" {
		respondError(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.authService.Logout(token); err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"logged_out": true})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := GetAuthContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
		return
	}

	respondData(w, http.StatusOK, authCtx.Profile)
}
