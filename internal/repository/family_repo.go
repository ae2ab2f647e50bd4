package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homehq/internal/database"
	"homehq/internal/models"
)

// ErrAlreadyInFamily is returned when a guarded write finds the acting
// profile already bound to a family.
var ErrAlreadyInFamily = errors.New("profile already belongs to a family")

// ErrInvitationSpent is returned when an invitation row is already used.
var ErrInvitationSpent = errors.New("invitation already used")

// FamilyRepository handles database operations for families, account-less
// members and invitations
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamilyWithAdmin creates a family and binds the creator to it as admin
// in one transaction. The profile update is guarded by family_id IS NULL so a
// concurrent create cannot produce a second family for the same profile.
func (r *FamilyRepository) CreateFamilyWithAdmin(name, creatorProfileID string) (*models.Family, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	family := &models.Family{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	query := "INSERT INTO families (id, name, created_at) VALUES (?, ?, ?)"
	if _, err := tx.Exec(query, family.ID, family.Name, family.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	query = "UPDATE profiles SET family_id = ?, role = ? WHERE id = ? AND family_id IS NULL"
	result, err := tx.Exec(query, family.ID, models.RoleAdmin, creatorProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to bind creator to family: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check creator binding: %w", err)
	}
	if affected == 0 {
		return nil, ErrAlreadyInFamily
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return family, nil
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(familyID string) (*models.Family, error) {
	query := "SELECT id, name, created_at FROM families WHERE id = ?"
	family := &models.Family{}
	err := r.db.QueryRow(query, familyID).Scan(&family.ID, &family.Name, &family.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}

// CreateMember inserts an account-less family member
func (r *FamilyRepository) CreateMember(m *models.FamilyMember) error {
	query := "INSERT INTO family_members (id, family_id, name, is_admin, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.Exec(query, m.ID, m.FamilyID, m.Name, m.IsAdmin, m.CreatedAt); err != nil {
		return fmt.Errorf("failed to create family member: %w", err)
	}
	return nil
}

// GetMemberByID retrieves an account-less member by ID
func (r *FamilyRepository) GetMemberByID(id string) (*models.FamilyMember, error) {
	query := "SELECT id, family_id, name, is_admin, created_at FROM family_members WHERE id = ?"
	m := &models.FamilyMember{}
	err := r.db.QueryRow(query, id).Scan(&m.ID, &m.FamilyID, &m.Name, &m.IsAdmin, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family member: %w", err)
	}
	return m, nil
}

// GetFamilyMembers retrieves all account-less members of a family
func (r *FamilyRepository) GetFamilyMembers(familyID string) ([]models.FamilyMember, error) {
	query := "SELECT id, family_id, name, is_admin, created_at FROM family_members WHERE family_id = ? ORDER BY created_at ASC"
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.FamilyMember
	for rows.Next() {
		var m models.FamilyMember
		if err := rows.Scan(&m.ID, &m.FamilyID, &m.Name, &m.IsAdmin, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// DeleteMember removes an account-less member. Returns false when no row
// matched the id and family scope.
func (r *FamilyRepository) DeleteMember(id, familyID string) (bool, error) {
	query := "DELETE FROM family_members WHERE id = ? AND family_id = ?"
	result, err := r.db.Exec(query, id, familyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete family member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted member: %w", err)
	}
	return affected > 0, nil
}

// CreateInvitation inserts an invitation row
func (r *FamilyRepository) CreateInvitation(inv *models.Invitation) error {
	query := `
		INSERT INTO invitations (id, family_id, email, invited_by, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, inv.ID, inv.FamilyID, inv.Email, inv.InvitedBy, inv.CreatedAt, inv.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// GetInvitationByID retrieves an invitation by ID
func (r *FamilyRepository) GetInvitationByID(id string) (*models.Invitation, error) {
	query := "SELECT id, family_id, email, invited_by, created_at, expires_at, used_at, used_by FROM invitations WHERE id = ?"
	inv := &models.Invitation{}
	var usedAt sql.NullTime
	var usedBy sql.NullString
	err := r.db.QueryRow(query, id).Scan(
		&inv.ID, &inv.FamilyID, &inv.Email, &inv.InvitedBy,
		&inv.CreatedAt, &inv.ExpiresAt, &usedAt, &usedBy,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if usedAt.Valid {
		inv.UsedAt = &usedAt.Time
	}
	if usedBy.Valid {
		inv.UsedBy = &usedBy.String
	}
	return inv, nil
}

// RedeemInvitation marks the invitation used and binds the profile to the
// invitation's family in one transaction. Both updates are guarded so a spent
// invitation or an already-joined profile aborts the whole redemption.
func (r *FamilyRepository) RedeemInvitation(invitationID, profileID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var familyID string
	query := "SELECT family_id FROM invitations WHERE id = ? AND used_at IS NULL"
	err = tx.QueryRow(query, invitationID).Scan(&familyID)
	if err == sql.ErrNoRows {
		return ErrInvitationSpent
	}
	if err != nil {
		return fmt.Errorf("failed to load invitation: %w", err)
	}

	now := time.Now().UTC()
	query = "UPDATE invitations SET used_at = ?, used_by = ? WHERE id = ? AND used_at IS NULL"
	result, err := tx.Exec(query, now, profileID, invitationID)
	if err != nil {
		return fmt.Errorf("failed to mark invitation used: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check invitation update: %w", err)
	} else if affected == 0 {
		return ErrInvitationSpent
	}

	query = "UPDATE profiles SET family_id = ?, role = ? WHERE id = ? AND family_id IS NULL"
	result, err = tx.Exec(query, familyID, models.RoleMember, profileID)
	if err != nil {
		return fmt.Errorf("failed to bind profile to family: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check profile update: %w", err)
	} else if affected == 0 {
		return ErrAlreadyInFamily
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpiredInvitations removes unredeemed invitations past their expiry
func (r *FamilyRepository) DeleteExpiredInvitations() error {
	query := "DELETE FROM invitations WHERE used_at IS NULL AND expires_at < ?"
	if _, err := r.db.Exec(query, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to delete expired invitations: %w", err)
	}
	return nil
}
