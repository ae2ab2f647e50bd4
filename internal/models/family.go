package models

import "time"

// Role values for a profile within its family.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Family is the tenancy boundary: every event, task and member belongs to exactly one family.
type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FamilyMember is an account-less member of a family (e.g. a child).
// It has no login capability and is managed by authenticated profiles of the same family.
type FamilyMember struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Invitation invites an email address into a family. Redemption happens through a
// signed token; the row records delivery and single-use state.
type Invitation struct {
	ID        string     `json:"id"`
	FamilyID  string     `json:"family_id"`
	Email     string     `json:"email"`
	InvitedBy string     `json:"invited_by"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	UsedBy    *string    `json:"used_by,omitempty"`
}

// IsExpired checks if the invitation has expired.
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsUsed checks if the invitation has already been redeemed.
func (i *Invitation) IsUsed() bool {
	return i.UsedAt != nil
}

// IsValid reports whether the invitation can still be redeemed.
func (i *Invitation) IsValid() bool {
	return !i.IsExpired() && !i.IsUsed()
}

// FamilyOverview combines a family with its profiles and account-less members.
type FamilyOverview struct {
	Family   Family         `json:"family"`
	Profiles []Profile      `json:"profiles"`
	Members  []FamilyMember `json:"members"`
}
