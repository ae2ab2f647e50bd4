package repository

import (
	"database/sql"
	"fmt"
	"time"

	"homehq/internal/database"
	"homehq/internal/models"
	"homehq/internal/validation"
)

// EventRepository handles database operations for events
type EventRepository struct {
	db *database.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateEvent inserts an event and its participants in one transaction
func (r *EventRepository) CreateEvent(e *models.Event) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (id, family_id, created_by, title, description, start_time, end_time, is_private, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query,
		e.ID, e.FamilyID, e.CreatedBy, e.Title, e.Description,
		e.StartTime, e.EndTime, e.IsPrivate, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	for _, profileID := range e.ParticipantIDs {
		query = "INSERT INTO event_participants (event_id, profile_id) VALUES (?, ?)"
		if _, err := tx.Exec(query, e.ID, profileID); err != nil {
			return fmt.Errorf("failed to add event participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const eventColumns = "id, family_id, created_by, title, description, start_time, end_time, is_private, archived_at, created_at"

// GetEventByID retrieves a non-archived event with its participants.
// Archived events are reported the same way as absent ones.
func (r *EventRepository) GetEventByID(id string) (*models.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE id = ? AND archived_at IS NULL"
	e := &models.Event{}
	var archivedAt sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&e.ID, &e.FamilyID, &e.CreatedBy, &e.Title, &e.Description,
		&e.StartTime, &e.EndTime, &e.IsPrivate, &archivedAt, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if archivedAt.Valid {
		e.ArchivedAt = &archivedAt.Time
	}

	participants, err := r.getParticipants(e.ID)
	if err != nil {
		return nil, err
	}
	e.ParticipantIDs = participants

	return e, nil
}

// ListEvents retrieves non-archived events of a family visible to the viewer.
// Private events belonging to other profiles are excluded.
func (r *EventRepository) ListEvents(familyID, viewerID string, q *validation.EventListQuery) ([]models.Event, error) {
	query := "SELECT " + eventColumns + ` FROM events
		WHERE family_id = ? AND archived_at IS NULL AND (is_private = ? OR created_by = ?)`
	args := []interface{}{familyID, false, viewerID}

	if q.From != nil {
		query += " AND start_time >= ?"
		args = append(args, q.From.UTC())
	}
	if q.To != nil {
		query += " AND start_time <= ?"
		args = append(args, q.To.UTC())
	}
	query += " ORDER BY start_time ASC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		var archivedAt sql.NullTime
		if err := rows.Scan(
			&e.ID, &e.FamilyID, &e.CreatedBy, &e.Title, &e.Description,
			&e.StartTime, &e.EndTime, &e.IsPrivate, &archivedAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if archivedAt.Valid {
			e.ArchivedAt = &archivedAt.Time
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		participants, err := r.getParticipants(events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].ParticipantIDs = participants
	}

	return events, nil
}

// ArchiveEvent soft-deletes an event and clears the event reference on its
// dependent tasks, preserving task history. Returns false when the event is
// absent or already archived; callers cannot tell the two apart.
func (r *EventRepository) ArchiveEvent(id, familyID string) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "UPDATE events SET archived_at = ? WHERE id = ? AND family_id = ? AND archived_at IS NULL"
	result, err := tx.Exec(query, time.Now().UTC(), id, familyID)
	if err != nil {
		return false, fmt.Errorf("failed to archive event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check archived event: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	query = "UPDATE tasks SET event_id = NULL WHERE event_id = ?"
	if _, err := tx.Exec(query, id); err != nil {
		return false, fmt.Errorf("failed to clear task event references: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

func (r *EventRepository) getParticipants(eventID string) ([]string, error) {
	query := "SELECT profile_id FROM event_participants WHERE event_id = ? ORDER BY profile_id ASC"
	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query event participants: %w", err)
	}
	defer rows.Close()

	participants := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event participant: %w", err)
		}
		participants = append(participants, id)
	}
	return participants, rows.Err()
}
