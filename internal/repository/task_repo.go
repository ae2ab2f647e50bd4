package repository

import (
	"database/sql"
	"fmt"
	"time"

	"homehq/internal/database"
	"homehq/internal/models"
	"homehq/internal/validation"
)

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask inserts a task row
func (r *TaskRepository) CreateTask(t *models.Task) error {
	query := `
		INSERT INTO tasks (id, family_id, created_by, title, due_date, assigned_to, is_private,
			is_completed, completed_at, completed_by, event_id, suggestion_id, created_from_suggestion, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		t.ID, t.FamilyID, t.CreatedBy, t.Title, t.DueDate, t.AssignedTo, t.IsPrivate,
		t.IsCompleted, t.CompletedAt, t.CompletedBy, t.EventID, t.SuggestionID,
		t.CreatedFromSuggestion, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

const taskColumns = `id, family_id, created_by, title, due_date, assigned_to, is_private,
	is_completed, completed_at, completed_by, event_id, suggestion_id, created_from_suggestion, archived_at, created_at`

func scanTaskRow(scan func(dest ...interface{}) error) (*models.Task, error) {
	t := &models.Task{}
	var dueDate, completedAt, archivedAt sql.NullTime
	var assignedTo, completedBy, eventID, suggestionID sql.NullString
	err := scan(
		&t.ID, &t.FamilyID, &t.CreatedBy, &t.Title, &dueDate, &assignedTo, &t.IsPrivate,
		&t.IsCompleted, &completedAt, &completedBy, &eventID, &suggestionID,
		&t.CreatedFromSuggestion, &archivedAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	if archivedAt.Valid {
		t.ArchivedAt = &archivedAt.Time
	}
	if assignedTo.Valid {
		t.AssignedTo = &assignedTo.String
	}
	if completedBy.Valid {
		t.CompletedBy = &completedBy.String
	}
	if eventID.Valid {
		t.EventID = &eventID.String
	}
	if suggestionID.Valid {
		t.SuggestionID = &suggestionID.String
	}
	return t, nil
}

// GetTaskByID retrieves a non-archived task. Archived tasks are reported the
// same way as absent ones.
func (r *TaskRepository) GetTaskByID(id string) (*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = ? AND archived_at IS NULL"
	t, err := scanTaskRow(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// ListTasks retrieves non-archived tasks of a family visible to the viewer,
// applying the validated query filters.
func (r *TaskRepository) ListTasks(familyID, viewerID string, q *validation.TaskListQuery) ([]models.Task, error) {
	query := "SELECT " + taskColumns + ` FROM tasks
		WHERE family_id = ? AND archived_at IS NULL AND (is_private = ? OR created_by = ?)`
	args := []interface{}{familyID, false, viewerID}

	if q.Completed != nil {
		query += " AND is_completed = ?"
		args = append(args, *q.Completed)
	}
	if q.DueAfter != nil {
		query += " AND due_date >= ?"
		args = append(args, q.DueAfter.UTC())
	}
	if q.DueBefore != nil {
		query += " AND due_date <= ?"
		args = append(args, q.DueBefore.UTC())
	}

	switch q.Sort {
	case validation.SortDueDateDesc:
		query += " ORDER BY due_date DESC, created_at DESC"
	case validation.SortCreatedAtDesc:
		query += " ORDER BY created_at DESC"
	default:
		query += " ORDER BY due_date ASC, created_at ASC"
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTaskRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}

	return tasks, rows.Err()
}

// SetCompletion toggles a task's completion state, stamping who completed it
// and when. Returns false when the task is absent or archived.
func (r *TaskRepository) SetCompletion(id, familyID string, completed bool, completedBy string) (bool, error) {
	var query string
	var args []interface{}
	if completed {
		query = `UPDATE tasks SET is_completed = ?, completed_at = ?, completed_by = ?
			WHERE id = ? AND family_id = ? AND archived_at IS NULL`
		args = []interface{}{true, time.Now().UTC(), completedBy, id, familyID}
	} else {
		query = `UPDATE tasks SET is_completed = ?, completed_at = NULL, completed_by = NULL
			WHERE id = ? AND family_id = ? AND archived_at IS NULL`
		args = []interface{}{false, id, familyID}
	}

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update task completion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check task update: %w", err)
	}
	return affected > 0, nil
}

// ArchiveTask soft-deletes a task. Returns false when the task is absent or
// already archived.
func (r *TaskRepository) ArchiveTask(id, familyID string) (bool, error) {
	query := "UPDATE tasks SET archived_at = ? WHERE id = ? AND family_id = ? AND archived_at IS NULL"
	result, err := r.db.Exec(query, time.Now().UTC(), id, familyID)
	if err != nil {
		return false, fmt.Errorf("failed to archive task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check archived task: %w", err)
	}
	return affected > 0, nil
}
