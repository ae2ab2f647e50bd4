package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"homehq/internal/models"
	"homehq/internal/repository"
	"homehq/internal/suggest"
	"homehq/internal/validation"
)

// EventService handles event business logic
type EventService struct {
	eventRepo   *repository.EventRepository
	profileRepo *repository.ProfileRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo *repository.EventRepository, profileRepo *repository.ProfileRepository) *EventService {
	return &EventService{eventRepo: eventRepo, profileRepo: profileRepo}
}

// requireFamily re-fetches the acting profile before any privileged write so
// authorization runs against fresh state.
func (s *EventService) requireFamily(profileID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting profile: %w", err)
	}
	if profile == nil {
		return nil, ErrUnauthenticated
	}
	if profile.FamilyID == nil {
		return nil, ErrNoFamily
	}
	return profile, nil
}

// CreateEvent creates an event in the acting profile's family. family_id and
// created_by are stamped from the resolved profile; every participant must be
// a profile of the same family; the private participant cap is re-verified
// here even though the schema already enforces it.
func (s *EventService) CreateEvent(profileID string, input *validation.CreateEventInput) (*models.Event, error) {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return nil, err
	}
	familyID := *profile.FamilyID

	if input.IsPrivate && len(input.ParticipantIDs) > 1 {
		return nil, ErrInvalidPrivateEvent
	}

	for _, participantID := range input.ParticipantIDs {
		participant, err := s.profileRepo.GetProfileByID(participantID)
		if err != nil {
			return nil, fmt.Errorf("failed to load participant: %w", err)
		}
		if participant == nil || participant.FamilyID == nil || *participant.FamilyID != familyID {
			return nil, ErrForbidden
		}
	}

	event := &models.Event{
		ID:             uuid.NewString(),
		FamilyID:       familyID,
		CreatedBy:      profile.ID,
		Title:          input.Title,
		Description:    input.Description,
		StartTime:      input.StartTime.UTC(),
		EndTime:        input.EndTime.UTC(),
		IsPrivate:      input.IsPrivate,
		ParticipantIDs: input.ParticipantIDs,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.eventRepo.CreateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

// GetEvent retrieves an event visible to the acting profile. Cross-family,
// archived and private events of others all report the same not-found error.
func (s *EventService) GetEvent(profileID, eventID string) (*models.Event, error) {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil || event.FamilyID != *profile.FamilyID || !event.VisibleTo(profile.ID) {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents retrieves family events visible to the acting profile
func (s *EventService) ListEvents(profileID string, q *validation.EventListQuery) ([]models.Event, error) {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListEvents(*profile.FamilyID, profile.ID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// DeleteEvent soft-deletes an event. Only the creator may delete; dependent
// tasks keep their history with the event reference cleared. Deleting an
// archived event reports the same not-found error as a non-existent id.
func (s *EventService) DeleteEvent(profileID, eventID string) error {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return err
	}

	event, err := s.eventRepo.GetEventByID(eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil || event.FamilyID != *profile.FamilyID || !event.VisibleTo(profile.ID) {
		return ErrEventNotFound
	}
	if event.CreatedBy != profile.ID {
		return ErrForbidden
	}

	archived, err := s.eventRepo.ArchiveEvent(eventID, *profile.FamilyID)
	if err != nil {
		return fmt.Errorf("failed to archive event: %w", err)
	}
	if !archived {
		return ErrEventNotFound
	}
	return nil
}

// Suggestions runs the rule engine over an event visible to the acting
// profile. Nothing is persisted.
func (s *EventService) Suggestions(profileID, eventID string) ([]models.TaskSuggestion, error) {
	event, err := s.GetEvent(profileID, eventID)
	if err != nil {
		return nil, err
	}
	return suggest.ForEvent(event.Title, event.StartTime), nil
}
