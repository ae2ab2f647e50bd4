package repository

import (
	"database/sql"
	"fmt"
	"time"

	"homehq/internal/database"
	"homehq/internal/models"
)

// ProfileRepository handles database operations for profiles and their sessions
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// CreateProfile inserts a new profile row
func (r *ProfileRepository) CreateProfile(p *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, oauth_provider, oauth_subject, display_name, family_id, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		p.ID, p.Email, p.PasswordHash, p.OAuthProvider, p.OAuthSubject,
		p.DisplayName, p.FamilyID, p.Role, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

const profileColumns = "id, email, password_hash, oauth_provider, oauth_subject, display_name, family_id, role, created_at"

func scanProfile(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	var familyID sql.NullString
	err := row.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.OAuthProvider, &p.OAuthSubject,
		&p.DisplayName, &familyID, &p.Role, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	if familyID.Valid {
		p.FamilyID = &familyID.String
	}
	return p, nil
}

// GetProfileByID retrieves a profile by ID
func (r *ProfileRepository) GetProfileByID(id string) (*models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE id = ?"
	return scanProfile(r.db.QueryRow(query, id))
}

// GetProfileByEmail retrieves a profile by email
func (r *ProfileRepository) GetProfileByEmail(email string) (*models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE email = ?"
	return scanProfile(r.db.QueryRow(query, email))
}

// GetProfileByOAuth retrieves a profile by OAuth provider and subject
func (r *ProfileRepository) GetProfileByOAuth(provider, subject string) (*models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE oauth_provider = ? AND oauth_subject = ?"
	return scanProfile(r.db.QueryRow(query, provider, subject))
}

// GetFamilyProfiles retrieves all profiles belonging to a family
func (r *ProfileRepository) GetFamilyProfiles(familyID string) ([]models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE family_id = ? ORDER BY created_at ASC"
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		var fid sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Email, &p.PasswordHash, &p.OAuthProvider, &p.OAuthSubject,
			&p.DisplayName, &fid, &p.Role, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		if fid.Valid {
			p.FamilyID = &fid.String
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// CreateSession inserts a new session row
func (r *ProfileRepository) CreateSession(id, profileID string, expiresAt time.Time) (*models.Session, error) {
	now := time.Now().UTC()
	query := "INSERT INTO sessions (id, profile_id, expires_at, created_at) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, id, profileID, expiresAt, now); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &models.Session{ID: id, ProfileID: profileID, ExpiresAt: expiresAt, CreatedAt: now}, nil
}

// GetSession retrieves a session by ID
func (r *ProfileRepository) GetSession(id string) (*models.Session, error) {
	query := "SELECT id, profile_id, expires_at, created_at FROM sessions WHERE id = ?"
	s := &models.Session{}
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.ProfileID, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// DeleteSession removes a session
func (r *ProfileRepository) DeleteSession(id string) error {
	query := "DELETE FROM sessions WHERE id = ?"
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry
func (r *ProfileRepository) DeleteExpiredSessions() error {
	query := "DELETE FROM sessions WHERE expires_at < ?"
	if _, err := r.db.Exec(query, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
