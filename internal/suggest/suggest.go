// Package suggest proposes tasks from an event's title. Matching is a fixed
// keyword table checked case-insensitively; suggestions are ephemeral and only
// become tasks through an explicit accept.
package suggest

import (
	"strings"
	"time"

	"homehq/internal/models"
)

// rule maps a title keyword to the task it proposes. dueOffset is relative to
// the event's start time.
type rule struct {
	keyword      string
	suggestionID string
	title        string
	description  string
	dueOffset    time.Duration
}

var rules = []rule{
	{
		keyword:      "birthday",
		suggestionID: "birthday",
		title:        "Buy a gift",
		description:  "Pick up a present before the party",
		dueOffset:    7 * 24 * time.Hour,
	},
	{
		keyword:      "doctor",
		suggestionID: "appointment-docs",
		title:        "Gather medical documents",
		description:  "Insurance card, referral and vaccination record",
		dueOffset:    24 * time.Hour,
	},
	{
		keyword:      "dentist",
		suggestionID: "appointment-docs",
		title:        "Gather medical documents",
		description:  "Insurance card, referral and vaccination record",
		dueOffset:    24 * time.Hour,
	},
	{
		keyword:      "school",
		suggestionID: "school-supplies",
		title:        "Check school supplies",
		description:  "Make sure everything on the supply list is ready",
		dueOffset:    2 * 24 * time.Hour,
	},
	{
		keyword:      "trip",
		suggestionID: "packing",
		title:        "Pack bags",
		description:  "Pack clothes and travel documents",
		dueOffset:    24 * time.Hour,
	},
}

// ForEvent returns task suggestions for an event title. Deterministic, no side
// effects; returns an empty slice when no keyword matches. A suggestion id
// appears at most once even if several keywords map to it.
func ForEvent(title string, startTime time.Time) []models.TaskSuggestion {
	lower := strings.ToLower(title)

	suggestions := []models.TaskSuggestion{}
	seen := make(map[string]bool)
	for _, r := range rules {
		if !strings.Contains(lower, r.keyword) {
			continue
		}
		if seen[r.suggestionID] {
			continue
		}
		seen[r.suggestionID] = true

		due := startTime.Add(r.dueOffset)
		suggestions = append(suggestions, models.TaskSuggestion{
			SuggestionID: r.suggestionID,
			Title:        r.title,
			Description:  r.description,
			DueDate:      &due,
		})
	}

	return suggestions
}

// KnownID reports whether id is a suggestion id the rule table can produce.
func KnownID(id string) bool {
	for _, r := range rules {
		if r.suggestionID == id {
			return true
		}
	}
	return false
}
