package handlers

import (
	"net/http"

	"homehq/internal/service"
	"homehq/internal/validation"
)

type FamilyHandler struct {
	familyService *service.FamilyService
}

func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// Create handles POST /api/families
func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	var req validation.CreateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w)
		return
	}

	input, ferr := req.Validate()
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	family, err := h.familyService.CreateFamily(authCtx.Profile.ID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, family)
}

// Current handles GET /api/families/current
func (h *FamilyHandler) Current(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	overview, err := h.familyService.GetOverview(authCtx.Profile.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, overview)
}

// Invite handles POST /api/families/invitations
func (h *FamilyHandler) Invite(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	var req validation.InviteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w)
		return
	}

	if _, ferr := req.Validate(); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	invitation, token, err := h.familyService.Invite(r.Context(), authCtx.Profile.ID, req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]interface{}{
		"invitation": invitation,
		"token":      token,
	})
}

// Redeem handles POST /api/families/invitations/redeem
func (h *FamilyHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	var req validation.RedeemInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w)
		return
	}

	if _, ferr := req.Validate(); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	profile, err := h.familyService.Redeem(authCtx.Profile.ID, req.Token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, profile)
}

// CreateMember handles POST /api/families/members
func (h *FamilyHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	var req validation.CreateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w)
		return
	}

	input, ferr := req.Validate()
	if ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	member, err := h.familyService.CreateMember(authCtx.Profile.ID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated, member)
}

// DeleteMember handles DELETE /api/families/members/{id}
func (h *FamilyHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := GetAuthContext(r.Context())

	memberID := r.PathValue("id")
	if _, ferr := validation.ParseID("id", memberID); ferr != nil {
		respondFieldError(w, ferr)
		return
	}

	if err := h.familyService.DeleteMember(authCtx.Profile.ID, memberID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"deleted": true})
}
