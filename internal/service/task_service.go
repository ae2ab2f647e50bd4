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

// TaskService handles task business logic
type TaskService struct {
	taskRepo    *repository.TaskRepository
	eventRepo   *repository.EventRepository
	profileRepo *repository.ProfileRepository
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo *repository.TaskRepository, eventRepo *repository.EventRepository, profileRepo *repository.ProfileRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, eventRepo: eventRepo, profileRepo: profileRepo}
}

func (s *TaskService) requireFamily(profileID string) (*models.Profile, error) {
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

// CreateTask creates a task in the acting profile's family. The assignee,
// when present, must be a profile of the same family — checked against
// freshly fetched state, and nothing is written when the check fails. The
// linked event, when present, must be non-archived and visible to the
// creator.
func (s *TaskService) CreateTask(profileID string, input *validation.CreateTaskInput) (*models.Task, error) {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return nil, err
	}
	familyID := *profile.FamilyID

	if input.AssignedTo != nil {
		assignee, err := s.profileRepo.GetProfileByID(*input.AssignedTo)
		if err != nil {
			return nil, fmt.Errorf("failed to load assignee: %w", err)
		}
		if assignee == nil || assignee.FamilyID == nil || *assignee.FamilyID != familyID {
			return nil, ErrForbidden
		}
	}

	if input.EventID != nil {
		event, err := s.eventRepo.GetEventByID(*input.EventID)
		if err != nil {
			return nil, fmt.Errorf("failed to load linked event: %w", err)
		}
		if event == nil || event.FamilyID != familyID || !event.VisibleTo(profile.ID) {
			return nil, ErrEventNotFound
		}
	}

	task := &models.Task{
		ID:         uuid.NewString(),
		FamilyID:   familyID,
		CreatedBy:  profile.ID,
		Title:      input.Title,
		DueDate:    utcOrNil(input.DueDate),
		AssignedTo: input.AssignedTo,
		IsPrivate:  input.IsPrivate,
		EventID:    input.EventID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.taskRepo.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// CreateFromSuggestion turns a rule-engine suggestion into a task. The
// suggestion id must be one the engine actually produces for the event;
// suggestions are never auto-persisted.
func (s *TaskService) CreateFromSuggestion(profileID string, input *validation.AcceptSuggestionInput) (*models.Task, error) {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return nil, err
	}
	familyID := *profile.FamilyID

	event, err := s.eventRepo.GetEventByID(input.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil || event.FamilyID != familyID || !event.VisibleTo(profile.ID) {
		return nil, ErrEventNotFound
	}

	var accepted *models.TaskSuggestion
	for _, suggestion := range suggest.ForEvent(event.Title, event.StartTime) {
		if suggestion.SuggestionID == input.SuggestionID {
			s := suggestion
			accepted = &s
			break
		}
	}
	if accepted == nil {
		return nil, ErrSuggestionNotFound
	}

	suggestionID := accepted.SuggestionID
	task := &models.Task{
		ID:                    uuid.NewString(),
		FamilyID:              familyID,
		CreatedBy:             profile.ID,
		Title:                 accepted.Title,
		DueDate:               utcOrNil(accepted.DueDate),
		EventID:               &event.ID,
		SuggestionID:          &suggestionID,
		CreatedFromSuggestion: true,
		CreatedAt:             time.Now().UTC(),
	}
	if err := s.taskRepo.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListTasks retrieves family tasks visible to the acting profile
func (s *TaskService) ListTasks(profileID string, q *validation.TaskListQuery) ([]models.Task, error) {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListTasks(*profile.FamilyID, profile.ID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// SetCompletion toggles a task's completion state, stamping completed_at and
// completed_by from the acting profile.
func (s *TaskService) SetCompletion(profileID, taskID string, completed bool) (*models.Task, error) {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return nil, err
	}
	familyID := *profile.FamilyID

	task, err := s.taskRepo.GetTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil || task.FamilyID != familyID {
		return nil, ErrTaskNotFound
	}
	if task.IsPrivate && task.CreatedBy != profile.ID {
		return nil, ErrTaskNotFound
	}

	updated, err := s.taskRepo.SetCompletion(taskID, familyID, completed, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if !updated {
		return nil, ErrTaskNotFound
	}

	task, err = s.taskRepo.GetTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// DeleteTask soft-deletes a task; only the creator may delete
func (s *TaskService) DeleteTask(profileID, taskID string) error {
	profile, err := s.requireFamily(profileID)
	if err != nil {
		return err
	}
	familyID := *profile.FamilyID

	task, err := s.taskRepo.GetTaskByID(taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil || task.FamilyID != familyID {
		return ErrTaskNotFound
	}
	if task.IsPrivate && task.CreatedBy != profile.ID {
		return ErrTaskNotFound
	}
	if task.CreatedBy != profile.ID {
		return ErrForbidden
	}

	archived, err := s.taskRepo.ArchiveTask(taskID, familyID)
	if err != nil {
		return fmt.Errorf("failed to archive task: %w", err)
	}
	if !archived {
		return ErrTaskNotFound
	}
	return nil
}

func utcOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
