package models

import "time"

// Profile represents an authenticated user's account and their family membership.
// FamilyID is nil only before onboarding completes (the user has not created or
// joined a family yet).
type Profile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	OAuthProvider string    `json:"-"`
	OAuthSubject  string    `json:"-"`
	DisplayName   string    `json:"display_name"`
	FamilyID      *string   `json:"family_id,omitempty"`
	Role          string    `json:"role,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Session represents an authenticated session. The session ID is the opaque
// bearer token handed to clients.
type Session struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// AuthContext is the resolved identity of a request: who is acting, and in
// which family. FamilyID and Role are empty for a profile that has not
// completed onboarding.
type AuthContext struct {
	Profile  *Profile `json:"profile"`
	FamilyID string   `json:"family_id,omitempty"`
	Role     string   `json:"role,omitempty"`
}

// HasFamily reports whether the acting profile belongs to a family.
func (c *AuthContext) HasFamily() bool {
	return c.FamilyID != ""
}
