package service

import "errors"

// Sentinel errors shared across services. Handlers translate these into the
// wire-level error codes; anything not listed here surfaces as a database or
// internal error.
var (
	// ErrUnauthenticated means no valid session or profile backs the request.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNoFamily means the acting profile has not created or joined a family.
	ErrNoFamily = errors.New("profile must belong to a family")

	// ErrForbidden covers entity-specific permission failures: not the
	// creator, cross-family references, missing admin role.
	ErrForbidden = errors.New("operation not permitted")

	// ErrAlreadyInFamily means the acting profile already has a family.
	ErrAlreadyInFamily = errors.New("profile already belongs to a family")

	// ErrEventNotFound covers absent, archived and inaccessible events alike
	// so callers cannot probe for existence.
	ErrEventNotFound = errors.New("event not found")

	// ErrTaskNotFound covers absent, archived and inaccessible tasks alike.
	ErrTaskNotFound = errors.New("task not found")

	// ErrMemberNotFound covers absent and cross-family members alike.
	ErrMemberNotFound = errors.New("family member not found")

	// ErrSuggestionNotFound means the suggestion id is not produced by the
	// rule engine for the given event.
	ErrSuggestionNotFound = errors.New("suggestion not found for event")

	// ErrInvalidPrivateEvent means the private participant cap was violated.
	ErrInvalidPrivateEvent = errors.New("a private event can have at most one participant")

	// ErrInviteInvalid means the invitation token is invalid, expired or spent.
	ErrInviteInvalid = errors.New("invitation is invalid or expired")
)
