package validation

import (
	"net/url"
	"strconv"
	"time"
)

// Pagination bounds for list operations.
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Task sort options.
const (
	SortDueDateAsc    = "due_date_asc"
	SortDueDateDesc   = "due_date_desc"
	SortCreatedAtDesc = "created_at_desc"
)

// TaskListQuery holds the validated query parameters for listing tasks.
type TaskListQuery struct {
	Completed *bool
	DueAfter  *time.Time
	DueBefore *time.Time
	Sort      string
	Limit     int
	Offset    int
}

// EventListQuery holds the validated query parameters for listing events.
type EventListQuery struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ParseTaskListQuery validates list-tasks query parameters. Unknown enum
// values and malformed filters are field errors, not silently dropped.
func ParseTaskListQuery(values url.Values) (*TaskListQuery, *FieldError) {
	q := &TaskListQuery{Sort: SortDueDateAsc}

	limit, offset, ferr := parsePagination(values)
	if ferr != nil {
		return nil, ferr
	}
	q.Limit = limit
	q.Offset = offset

	if raw := values.Get("completed"); raw != "" {
		// Boolean filters are the literal strings "true"/"false".
		switch raw {
		case "true":
			v := true
			q.Completed = &v
		case "false":
			v := false
			q.Completed = &v
		default:
			return nil, &FieldError{Field: "completed", Message: `completed must be "true" or "false"`}
		}
	}

	if raw := values.Get("due_after"); raw != "" {
		t, ferr := parseTimestamp("due_after", raw)
		if ferr != nil {
			return nil, ferr
		}
		q.DueAfter = &t
	}
	if raw := values.Get("due_before"); raw != "" {
		t, ferr := parseTimestamp("due_before", raw)
		if ferr != nil {
			return nil, ferr
		}
		q.DueBefore = &t
	}

	if raw := values.Get("sort"); raw != "" {
		switch raw {
		case SortDueDateAsc, SortDueDateDesc, SortCreatedAtDesc:
			q.Sort = raw
		default:
			return nil, &FieldError{Field: "sort", Message: "unknown sort option"}
		}
	}

	return q, nil
}

// ParseEventListQuery validates list-events query parameters.
func ParseEventListQuery(values url.Values) (*EventListQuery, *FieldError) {
	q := &EventListQuery{}

	limit, offset, ferr := parsePagination(values)
	if ferr != nil {
		return nil, ferr
	}
	q.Limit = limit
	q.Offset = offset

	if raw := values.Get("from"); raw != "" {
		t, ferr := parseTimestamp("from", raw)
		if ferr != nil {
			return nil, ferr
		}
		q.From = &t
	}
	if raw := values.Get("to"); raw != "" {
		t, ferr := parseTimestamp("to", raw)
		if ferr != nil {
			return nil, ferr
		}
		q.To = &t
	}

	return q, nil
}

func parsePagination(values url.Values) (limit, offset int, ferr *FieldError) {
	limit = DefaultLimit
	offset = 0

	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxLimit {
			return 0, 0, &FieldError{Field: "limit", Message: "limit must be between 1 and 500"}
		}
		limit = n
	}
	if raw := values.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, 0, &FieldError{Field: "offset", Message: "offset must be non-negative"}
		}
		offset = n
	}

	return limit, offset, nil
}
