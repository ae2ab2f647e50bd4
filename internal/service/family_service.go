package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"homehq/internal/models"
	"homehq/internal/repository"
	"homehq/internal/security"
	"homehq/internal/validation"
)

// FamilyService handles family, member and invitation business logic
type FamilyService struct {
	familyRepo   *repository.FamilyRepository
	profileRepo  *repository.ProfileRepository
	inviteSigner *security.InviteSigner
	inviteTTL    time.Duration
	email        *EmailService
}

// NewFamilyService creates a new family service. email may be nil when
// invitation delivery is not configured.
func NewFamilyService(familyRepo *repository.FamilyRepository, profileRepo *repository.ProfileRepository, inviteSigner *security.InviteSigner, inviteTTL time.Duration, email *EmailService) *FamilyService {
	return &FamilyService{
		familyRepo:   familyRepo,
		profileRepo:  profileRepo,
		inviteSigner: inviteSigner,
		inviteTTL:    inviteTTL,
		email:        email,
	}
}

// requireProfile re-fetches the acting profile so authorization decisions run
// against fresh state, never a client-supplied or stale context.
func (s *FamilyService) requireProfile(profileID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting profile: %w", err)
	}
	if profile == nil {
		return nil, ErrUnauthenticated
	}
	return profile, nil
}

// requireFamily re-fetches the acting profile and rejects profiles that have
// not completed onboarding.
func (s *FamilyService) requireFamily(profileID string) (*models.Profile, error) {
	profile, err := s.requireProfile(profileID)
	if err != nil {
		return nil, err
	}
	if profile.FamilyID == nil {
		return nil, ErrNoFamily
	}
	return profile, nil
}

// CreateFamily creates a family with the acting profile as its founding
// admin. Fails with ErrAlreadyInFamily when the profile already has one.
func (s *FamilyService) CreateFamily(profileID string, input *validation.CreateFamilyInput) (*models.Family, error) {
	profile, err := s.requireProfile(profileID)
	if err != nil {
		return nil, err
	}
	if profile.FamilyID != nil {
		return nil, ErrAlreadyInFamily
	}

	family, err := s.familyRepo.CreateFamilyWithAdmin(input.Name, profile.ID)
	if errors.Is(err, repository.ErrAlreadyInFamily) {
		return nil, ErrAlreadyInFamily
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}
	return family, nil
}

// GetOverview returns the acting profile's family with its profiles and
// account-less members.
func (s *FamilyService) GetOverview(profileID string) (*models.FamilyOverview, error) {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return nil, err
	}
	familyID := *profile.FamilyID

	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrNoFamily
	}

	profiles, err := s.profileRepo.GetFamilyProfiles(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family profiles: %w", err)
	}
	members, err := s.familyRepo.GetFamilyMembers(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}

	return &models.FamilyOverview{Family: *family, Profiles: profiles, Members: members}, nil
}

// CreateMember adds an account-less member to the acting profile's family.
// family_id is always stamped from the resolved profile, never the client.
func (s *FamilyService) CreateMember(profileID string, input *validation.CreateMemberInput) (*models.FamilyMember, error) {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return nil, err
	}

	member := &models.FamilyMember{
		ID:        uuid.NewString(),
		FamilyID:  *profile.FamilyID,
		Name:      input.Name,
		IsAdmin:   input.IsAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.familyRepo.CreateMember(member); err != nil {
		return nil, fmt.Errorf("failed to create family member: %w", err)
	}
	return member, nil
}

// DeleteMember removes an account-less member of the acting profile's family.
// A member of another family is indistinguishable from an absent one.
func (s *FamilyService) DeleteMember(profileID, memberID string) error {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return err
	}

	deleted, err := s.familyRepo.DeleteMember(memberID, *profile.FamilyID)
	if err != nil {
		return fmt.Errorf("failed to delete family member: %w", err)
	}
	if !deleted {
		return ErrMemberNotFound
	}
	return nil
}

// Invite creates an invitation into the acting admin's family and returns the
// signed redemption token. The email is sent best-effort; a delivery failure
// does not fail the invitation.
func (s *FamilyService) Invite(ctx context.Context, profileID, email string) (*models.Invitation, string, error) {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return nil, "", err
	}
	if profile.Role != models.RoleAdmin {
		return nil, "", ErrForbidden
	}

	now := time.Now().UTC()
	invitation := &models.Invitation{
		ID:        uuid.NewString(),
		FamilyID:  *profile.FamilyID,
		Email:     email,
		InvitedBy: profile.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.inviteTTL),
	}
	if err := s.familyRepo.CreateInvitation(invitation); err != nil {
		return nil, "", fmt.Errorf("failed to create invitation: %w", err)
	}

	token, err := s.inviteSigner.Sign(invitation.ID, invitation.FamilyID, invitation.Email, invitation.ExpiresAt)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign invitation: %w", err)
	}

	if s.email != nil && s.email.IsEnabled() {
		family, err := s.familyRepo.GetFamilyByID(invitation.FamilyID)
		if err == nil && family != nil {
			if err := s.email.SendInvitation(ctx, email, family.Name, profile.DisplayName, token); err != nil {
				log.Printf("Warning: failed to send invitation email to %s: %v", email, err)
			}
		}
	}

	return invitation, token, nil
}

// Redeem joins the acting profile to the family named by a signed invitation
// token. Invalid, expired and spent tokens are rejected alike.
func (s *FamilyService) Redeem(profileID, token string) (*models.Profile, error) {
	profile, err := s.requireProfile(profileID)
	if err != nil {
		return nil, err
	}
	if profile.FamilyID != nil {
		return nil, ErrAlreadyInFamily
	}

	claims, err := s.inviteSigner.Verify(token)
	if err != nil {
		return nil, ErrInviteInvalid
	}

	invitation, err := s.familyRepo.GetInvitationByID(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	if invitation == nil || !invitation.IsValid() || invitation.FamilyID != claims.FamilyID {
		return nil, ErrInviteInvalid
	}

	err = s.familyRepo.RedeemInvitation(invitation.ID, profile.ID)
	if errors.Is(err, repository.ErrInvitationSpent) {
		return nil, ErrInviteInvalid
	}
	if errors.Is(err, repository.ErrAlreadyInFamily) {
		return nil, ErrAlreadyInFamily
	}
	if err != nil {
		return nil, fmt.Errorf("failed to redeem invitation: %w", err)
	}

	return s.requireProfile(profileID)
}

// CleanupExpiredInvitations removes unredeemed invitations past their expiry
func (s *FamilyService) CleanupExpiredInvitations() error {
	return s.familyRepo.DeleteExpiredInvitations()
}
