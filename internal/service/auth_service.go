package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"homehq/internal/models"
	"homehq/internal/repository"
	"homehq/internal/security"
	"homehq/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// googleUserInfoURL is where the access token is traded for the user's identity.
const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthService handles registration, login and auth context resolution
type AuthService struct {
	profileRepo     *repository.ProfileRepository
	sessionDuration time.Duration
	googleOAuth     *oauth2.Config
	httpClient      *http.Client
}

// NewAuthService creates a new auth service. googleOAuth may be nil when
// Google sign-in is not configured.
func NewAuthService(profileRepo *repository.ProfileRepository, sessionDuration time.Duration, googleOAuth *oauth2.Config) *AuthService {
	return &AuthService{
		profileRepo:     profileRepo,
		sessionDuration: sessionDuration,
		googleOAuth:     googleOAuth,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Register creates a new profile with email/password credentials and opens a
// session for it. The profile starts without a family; onboarding completes
// when it creates or joins one.
func (s *AuthService) Register(input *validation.RegisterInput) (*models.Profile, *models.Session, error) {
	existing, err := s.profileRepo.GetProfileByEmail(input.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing profile: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		DisplayName:  input.DisplayName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.profileRepo.CreateProfile(profile); err != nil {
		return nil, nil, fmt.Errorf("failed to create profile: %w", err)
	}

	session, err := s.createSession(profile.ID)
	if err != nil {
		return nil, nil, err
	}
	return profile, session, nil
}

// Login authenticates a profile and creates a session
func (s *AuthService) Login(email, password string) (*models.Profile, *models.Session, error) {
	profile, err := s.profileRepo.GetProfileByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil || profile.PasswordHash == "" {
		return nil, nil, ErrInvalidCredentials
	}
	if !security.CheckPassword(password, profile.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(profile.ID)
	if err != nil {
		return nil, nil, err
	}
	return profile, session, nil
}

// googleUser is the subset of the userinfo response the service needs.
type googleUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginWithGoogle exchanges an authorization code for the user's identity and
// signs them in, creating a profile on first sign-in.
func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (*models.Profile, *models.Session, error) {
	if s.googleOAuth == nil {
		return nil, nil, errors.New("google sign-in is not configured")
	}

	token, err := s.googleOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("userinfo request failed: status %d", resp.StatusCode)
	}

	var info googleUser
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, nil, ErrInvalidCredentials
	}

	profile, err := s.profileRepo.GetProfileByOAuth("google", info.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up oauth profile: %w", err)
	}
	if profile == nil {
		// First sign-in; reuse an existing email/password account only if
		// the address matches, otherwise create a fresh profile.
		profile, err = s.profileRepo.GetProfileByEmail(info.Email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up profile by email: %w", err)
		}
		if profile == nil {
			name := info.Name
			if name == "" {
				name = info.Email
			}
			profile = &models.Profile{
				ID:            uuid.NewString(),
				Email:         info.Email,
				OAuthProvider: "google",
				OAuthSubject:  info.ID,
				DisplayName:   name,
				CreatedAt:     time.Now().UTC(),
			}
			if err := s.profileRepo.CreateProfile(profile); err != nil {
				return nil, nil, fmt.Errorf("failed to create profile: %w", err)
			}
		}
	}

	session, err := s.createSession(profile.ID)
	if err != nil {
		return nil, nil, err
	}
	return profile, session, nil
}

// Logout revokes a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.profileRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// ResolveContext resolves an opaque session handle into the acting identity.
// A missing or expired session yields ErrUnauthenticated; a valid session
// whose profile has no family yields a context with an empty FamilyID so
// callers can distinguish "no family" from "not authenticated". Transient
// lookup failures are returned as-is, never as authorization errors.
func (s *AuthService) ResolveContext(sessionID string) (*models.AuthContext, error) {
	if sessionID == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.profileRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil || session.IsExpired() {
		return nil, ErrUnauthenticated
	}

	profile, err := s.profileRepo.GetProfileByID(session.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	if profile == nil {
		return nil, ErrUnauthenticated
	}

	ctx := &models.AuthContext{Profile: profile}
	if profile.FamilyID != nil {
		ctx.FamilyID = *profile.FamilyID
		ctx.Role = profile.Role
	}
	return ctx, nil
}

// CleanupExpiredSessions removes sessions past their expiry
func (s *AuthService) CleanupExpiredSessions() error {
	return s.profileRepo.DeleteExpiredSessions()
}

func (s *AuthService) createSession(profileID string) (*models.Session, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().UTC().Add(s.sessionDuration)
	session, err := s.profileRepo.CreateSession(sessionID, profileID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}
