// Package validation implements the request schemas for every write operation.
// Each request type has a Validate method that reports the first violated rule
// as a field-scoped error; cross-field rules run only after every single-field
// rule has passed.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Maximum lengths, in runes.
const (
	MaxTitleLength       = 200
	MaxFamilyNameLength  = 100
	MaxDisplayNameLength = 100
	MaxMemberNameLength  = 100
	MaxDescriptionLength = 1000
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// FieldError reports the first violated rule of a request. Code is set only
// when the violation maps to a more specific error code than VALIDATION_ERROR.
type FieldError struct {
	Field   string
	Message string
	Code    string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// trimmed returns the value with surrounding whitespace removed.
func trimmed(value string) string {
	return strings.TrimSpace(value)
}

// requiredString trims the value and enforces presence and a maximum length.
func requiredString(field, value string, maxLen int) (string, *FieldError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &FieldError{Field: field, Message: field + " is required"}
	}
	if utf8.RuneCountInString(value) > maxLen {
		return "", &FieldError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, maxLen)}
	}
	return value, nil
}

// optionalString trims the value and enforces only a maximum length.
func optionalString(field, value string, maxLen int) (string, *FieldError) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > maxLen {
		return "", &FieldError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, maxLen)}
	}
	return value, nil
}

// parseTimestamp accepts an RFC 3339 timestamp with full round-trip fidelity:
// the parsed time must re-serialize to the exact input string, so partial or
// ambiguous formats are rejected.
func parseTimestamp(field, value string) (time.Time, *FieldError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &FieldError{Field: field, Message: field + " is required"}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, &FieldError{Field: field, Message: field + " must be an RFC 3339 timestamp"}
	}
	if t.Format(time.RFC3339Nano) != value {
		return time.Time{}, &FieldError{Field: field, Message: field + " must be a canonical RFC 3339 timestamp"}
	}
	return t, nil
}

// parseUUID accepts only the canonical 8-4-4-4-12 hex grouping.
func parseUUID(field, value string) (string, *FieldError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &FieldError{Field: field, Message: field + " is required"}
	}
	id, err := uuid.Parse(value)
	if err != nil || len(value) != 36 {
		return "", &FieldError{Field: field, Message: field + " must be a valid UUID"}
	}
	return id.String(), nil
}

// ParseID validates a path or query identifier.
func ParseID(field, value string) (string, *FieldError) {
	return parseUUID(field, value)
}

// validateEmail checks the address format after trimming.
func validateEmail(field, value string) (string, *FieldError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &FieldError{Field: field, Message: field + " is required"}
	}
	if !emailRegex.MatchString(value) {
		return "", &FieldError{Field: field, Message: "invalid email format"}
	}
	return value, nil
}
