package validation

import (
	"time"
)

// CreateFamilyRequest is the payload for creating a family.
type CreateFamilyRequest struct {
	Name string `json:"name"`
}

// CreateFamilyInput is the validated form of CreateFamilyRequest.
type CreateFamilyInput struct {
	Name string
}

func (r *CreateFamilyRequest) Validate() (*CreateFamilyInput, *FieldError) {
	name, ferr := requiredString("name", r.Name, MaxFamilyNameLength)
	if ferr != nil {
		return nil, ferr
	}
	return &CreateFamilyInput{Name: name}, nil
}

// RegisterRequest is the payload for creating a profile with email/password.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// RegisterInput is the validated form of RegisterRequest.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

func (r *RegisterRequest) Validate() (*RegisterInput, *FieldError) {
	email, ferr := validateEmail("email", r.Email)
	if ferr != nil {
		return nil, ferr
	}
	if r.Password == "" {
		return nil, &FieldError{Field: "password", Message: "password is required"}
	}
	if len(r.Password) < 8 {
		return nil, &FieldError{Field: "password", Message: "password must be at least 8 characters"}
	}
	name, ferr := requiredString("display_name", r.DisplayName, MaxDisplayNameLength)
	if ferr != nil {
		return nil, ferr
	}
	return &RegisterInput{Email: email, Password: r.Password, DisplayName: name}, nil
}

// LoginRequest is the payload for email/password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() (*LoginRequest, *FieldError) {
	email, ferr := validateEmail("email", r.Email)
	if ferr != nil {
		return nil, ferr
	}
	if r.Password == "" {
		return nil, &FieldError{Field: "password", Message: "password is required"}
	}
	return &LoginRequest{Email: email, Password: r.Password}, nil
}

// CreateMemberRequest is the payload for creating an account-less family member.
type CreateMemberRequest struct {
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// CreateMemberInput is the validated form of CreateMemberRequest.
type CreateMemberInput struct {
	Name    string
	IsAdmin bool
}

func (r *CreateMemberRequest) Validate() (*CreateMemberInput, *FieldError) {
	name, ferr := requiredString("name", r.Name, MaxMemberNameLength)
	if ferr != nil {
		return nil, ferr
	}
	return &CreateMemberInput{Name: name, IsAdmin: r.IsAdmin}, nil
}

// InviteRequest is the payload for inviting an email address into a family.
type InviteRequest struct {
	Email string `json:"email"`
}

func (r *InviteRequest) Validate() (*InviteRequest, *FieldError) {
	email, ferr := validateEmail("email", r.Email)
	if ferr != nil {
		return nil, ferr
	}
	return &InviteRequest{Email: email}, nil
}

// CreateEventRequest is the payload for creating an event. Timestamps arrive
// as strings so the schema can enforce round-trip fidelity.
type CreateEventRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	IsPrivate      bool     `json:"is_private"`
	ParticipantIDs []string `json:"participant_ids"`
}

// CreateEventInput is the validated form of CreateEventRequest.
type CreateEventInput struct {
	Title          string
	Description    string
	StartTime      time.Time
	EndTime        time.Time
	IsPrivate      bool
	ParticipantIDs []string
}

func (r *CreateEventRequest) Validate() (*CreateEventInput, *FieldError) {
	title, ferr := requiredString("title", r.Title, MaxTitleLength)
	if ferr != nil {
		return nil, ferr
	}
	description, ferr := optionalString("description", r.Description, MaxDescriptionLength)
	if ferr != nil {
		return nil, ferr
	}
	start, ferr := parseTimestamp("start_time", r.StartTime)
	if ferr != nil {
		return nil, ferr
	}
	end, ferr := parseTimestamp("end_time", r.EndTime)
	if ferr != nil {
		return nil, ferr
	}
	participants := make([]string, 0, len(r.ParticipantIDs))
	for _, raw := range r.ParticipantIDs {
		id, ferr := parseUUID("participant_ids", raw)
		if ferr != nil {
			return nil, ferr
		}
		participants = append(participants, id)
	}

	// Cross-field rules run only once every single-field rule has passed.
	if !end.After(start) {
		return nil, &FieldError{Field: "end_time", Message: "end_time must be after start_time"}
	}
	if r.IsPrivate && len(participants) > 1 {
		return nil, &FieldError{
			Field:   "participant_ids",
			Message: "a private event can have at most one participant",
			Code:    "INVALID_PRIVATE_EVENT",
		}
	}

	return &CreateEventInput{
		Title:          title,
		Description:    description,
		StartTime:      start,
		EndTime:        end,
		IsPrivate:      r.IsPrivate,
		ParticipantIDs: participants,
	}, nil
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title      string `json:"title"`
	DueDate    string `json:"due_date"`
	AssignedTo string `json:"assigned_to"`
	IsPrivate  bool   `json:"is_private"`
	EventID    string `json:"event_id"`
}

// CreateTaskInput is the validated form of CreateTaskRequest.
type CreateTaskInput struct {
	Title      string
	DueDate    *time.Time
	AssignedTo *string
	IsPrivate  bool
	EventID    *string
}

func (r *CreateTaskRequest) Validate() (*CreateTaskInput, *FieldError) {
	title, ferr := requiredString("title", r.Title, MaxTitleLength)
	if ferr != nil {
		return nil, ferr
	}

	input := &CreateTaskInput{Title: title, IsPrivate: r.IsPrivate}

	if trimmed(r.DueDate) != "" {
		due, ferr := parseTimestamp("due_date", r.DueDate)
		if ferr != nil {
			return nil, ferr
		}
		input.DueDate = &due
	}
	if r.AssignedTo != "" {
		assignee, ferr := parseUUID("assigned_to", r.AssignedTo)
		if ferr != nil {
			return nil, ferr
		}
		input.AssignedTo = &assignee
	}
	if r.EventID != "" {
		eventID, ferr := parseUUID("event_id", r.EventID)
		if ferr != nil {
			return nil, ferr
		}
		input.EventID = &eventID
	}

	return input, nil
}

// AcceptSuggestionRequest is the payload for turning a task suggestion into a
// task. The suggestion id is checked against the rule engine's allow-list;
// unknown values are rejected, never silently dropped.
type AcceptSuggestionRequest struct {
	EventID      string `json:"event_id"`
	SuggestionID string `json:"suggestion_id"`
}

// AcceptSuggestionInput is the validated form of AcceptSuggestionRequest.
type AcceptSuggestionInput struct {
	EventID      string
	SuggestionID string
}

// ValidSuggestionIDs must be provided by the caller (the suggestion engine's
// allow-list) so this package stays free of domain dependencies.
func (r *AcceptSuggestionRequest) Validate(knownID func(string) bool) (*AcceptSuggestionInput, *FieldError) {
	eventID, ferr := parseUUID("event_id", r.EventID)
	if ferr != nil {
		return nil, ferr
	}
	suggestionID := trimmed(r.SuggestionID)
	if suggestionID == "" {
		return nil, &FieldError{Field: "suggestion_id", Message: "suggestion_id is required"}
	}
	if !knownID(suggestionID) {
		return nil, &FieldError{Field: "suggestion_id", Message: "unknown suggestion_id"}
	}
	return &AcceptSuggestionInput{EventID: eventID, SuggestionID: suggestionID}, nil
}

// CompleteTaskRequest toggles a task's completion state.
type CompleteTaskRequest struct {
	Completed bool `json:"completed"`
}

// RedeemInviteRequest is the payload for redeeming an invitation token.
type RedeemInviteRequest struct {
	Token string `json:"token"`
}

func (r *RedeemInviteRequest) Validate() (*RedeemInviteRequest, *FieldError) {
	token := trimmed(r.Token)
	if token == "" {
		return nil, &FieldError{Field: "token", Message: "token is required"}
	}
	return &RedeemInviteRequest{Token: token}, nil
}
