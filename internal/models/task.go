package models

import "time"

// Task is a to-do item scoped to a family. AssignedTo, when set, references a
// profile in the same family. EventID, when set, links the task to a
// non-archived event the creator may access.
type Task struct {
	ID                    string     `json:"id"`
	FamilyID              string     `json:"family_id"`
	CreatedBy             string     `json:"created_by"`
	Title                 string     `json:"title"`
	DueDate               *time.Time `json:"due_date,omitempty"`
	AssignedTo            *string    `json:"assigned_to,omitempty"`
	IsPrivate             bool       `json:"is_private"`
	IsCompleted           bool       `json:"is_completed"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
	CompletedBy           *string    `json:"completed_by,omitempty"`
	EventID               *string    `json:"event_id,omitempty"`
	SuggestionID          *string    `json:"suggestion_id,omitempty"`
	CreatedFromSuggestion bool       `json:"created_from_suggestion"`
	ArchivedAt            *time.Time `json:"archived_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

// IsArchived reports whether the task has been soft-deleted.
func (t *Task) IsArchived() bool {
	return t.ArchivedAt != nil
}

// TaskSuggestion is an ephemeral task proposal generated from an event's
// metadata. It is never persisted; accepting one creates a regular Task.
type TaskSuggestion struct {
	SuggestionID string     `json:"suggestion_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}
