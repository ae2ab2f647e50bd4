package models

import "time"

// Event is a calendar entry scoped to a family. Invariants: EndTime is strictly
// after StartTime, and a private event has at most one participant. Events are
// soft-deleted: once ArchivedAt is set the event is excluded from all reads and
// further mutation.
type Event struct {
	ID             string     `json:"id"`
	FamilyID       string     `json:"family_id"`
	CreatedBy      string     `json:"created_by"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        time.Time  `json:"end_time"`
	IsPrivate      bool       `json:"is_private"`
	ParticipantIDs []string   `json:"participant_ids"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsArchived reports whether the event has been soft-deleted.
func (e *Event) IsArchived() bool {
	return e.ArchivedAt != nil
}

// VisibleTo reports whether a profile may see the event. Private events are
// visible only to their creator.
func (e *Event) VisibleTo(profileID string) bool {
	return !e.IsPrivate || e.CreatedBy == profileID
}
