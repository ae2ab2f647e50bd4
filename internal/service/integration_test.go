package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"homehq/internal/database"
	"homehq/internal/models"
	"homehq/internal/repository"
	"homehq/internal/security"
	"homehq/internal/validation"
)

// testEnv wires the full service stack against a throwaway SQLite database
type testEnv struct {
	auth   *AuthService
	family *FamilyService
	event  *EventService
	task   *TaskService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	profileRepo := repository.NewProfileRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	eventRepo := repository.NewEventRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	signer := security.NewInviteSigner("test-secret")
	return &testEnv{
		auth:   NewAuthService(profileRepo, time.Hour, nil),
		family: NewFamilyService(familyRepo, profileRepo, signer, time.Hour, nil),
		event:  NewEventService(eventRepo, profileRepo),
		task:   NewTaskService(taskRepo, eventRepo, profileRepo),
	}
}

func (env *testEnv) register(t *testing.T, email, name string) *models.Profile {
	t.Helper()
	profile, _, err := env.auth.Register(&validation.RegisterInput{
		Email:       email,
		Password:    "password123",
		DisplayName: name,
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", email, err)
	}
	return profile
}

// founder registers a profile and founds a family for it
func (env *testEnv) founder(t *testing.T, email, familyName string) *models.Profile {
	t.Helper()
	profile := env.register(t, email, "Founder "+email)
	if _, err := env.family.CreateFamily(profile.ID, &validation.CreateFamilyInput{Name: familyName}); err != nil {
		t.Fatalf("CreateFamily(%s) error = %v", familyName, err)
	}
	return profile
}

// join registers a profile and joins it to the admin's family via invitation
func (env *testEnv) join(t *testing.T, adminID, email string) *models.Profile {
	t.Helper()
	profile := env.register(t, email, "Joiner "+email)
	_, token, err := env.family.Invite(context.Background(), adminID, email)
	if err != nil {
		t.Fatalf("Invite(%s) error = %v", email, err)
	}
	joined, err := env.family.Redeem(profile.ID, token)
	if err != nil {
		t.Fatalf("Redeem(%s) error = %v", email, err)
	}
	return joined
}

func (env *testEnv) createEvent(t *testing.T, profileID, title string, private bool, participants ...string) *models.Event {
	t.Helper()
	start := time.Date(2026, 9, 12, 15, 0, 0, 0, time.UTC)
	event, err := env.event.CreateEvent(profileID, &validation.CreateEventInput{
		Title:          title,
		StartTime:      start,
		EndTime:        start.Add(2 * time.Hour),
		IsPrivate:      private,
		ParticipantIDs: participants,
	})
	if err != nil {
		t.Fatalf("CreateEvent(%s) error = %v", title, err)
	}
	return event
}

const absentID = "00000000-0000-0000-0000-000000000000"

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	profile, session, err := env.auth.Register(&validation.RegisterInput{
		Email:       "alice@example.com",
		Password:    "password123",
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if profile.FamilyID != nil {
		t.Error("new profile already has a family")
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := env.auth.Register(&validation.RegisterInput{
			Email:       "alice@example.com",
			Password:    "password123",
			DisplayName: "Alice Again",
		})
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("Register() error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("login", func(t *testing.T) {
		got, _, err := env.auth.Login("alice@example.com", "password123")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if got.ID != profile.ID {
			t.Errorf("Login() profile = %s, want %s", got.ID, profile.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := env.auth.Login("alice@example.com", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := env.auth.Login("nobody@example.com", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("resolve context", func(t *testing.T) {
		authCtx, err := env.auth.ResolveContext(session.ID)
		if err != nil {
			t.Fatalf("ResolveContext() error = %v", err)
		}
		if authCtx.Profile.ID != profile.ID {
			t.Errorf("ResolveContext() profile = %s, want %s", authCtx.Profile.ID, profile.ID)
		}
		if authCtx.HasFamily() {
			t.Error("ResolveContext() reports a family for a fresh profile")
		}
	})

	t.Run("bogus session", func(t *testing.T) {
		if _, err := env.auth.ResolveContext("no-such-session"); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("ResolveContext() error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("logout revokes", func(t *testing.T) {
		if err := env.auth.Logout(session.ID); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if _, err := env.auth.ResolveContext(session.ID); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("ResolveContext() after logout error = %v, want ErrUnauthenticated", err)
		}
	})
}

func TestCreateFamily(t *testing.T) {
	env := newTestEnv(t)
	profile := env.register(t, "alice@example.com", "Alice")

	family, err := env.family.CreateFamily(profile.ID, &validation.CreateFamilyInput{Name: "The Smiths"})
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	if family.Name != "The Smiths" {
		t.Errorf("family name = %q, want %q", family.Name, "The Smiths")
	}

	overview, err := env.family.GetOverview(profile.ID)
	if err != nil {
		t.Fatalf("GetOverview() error = %v", err)
	}
	if len(overview.Profiles) != 1 || overview.Profiles[0].Role != models.RoleAdmin {
		t.Errorf("founder is not the sole admin: %+v", overview.Profiles)
	}

	t.Run("second family conflicts", func(t *testing.T) {
		_, err := env.family.CreateFamily(profile.ID, &validation.CreateFamilyInput{Name: "Another"})
		if !errors.Is(err, ErrAlreadyInFamily) {
			t.Errorf("CreateFamily() error = %v, want ErrAlreadyInFamily", err)
		}
	})

	t.Run("overview requires family", func(t *testing.T) {
		loner := env.register(t, "loner@example.com", "Loner")
		if _, err := env.family.GetOverview(loner.ID); !errors.Is(err, ErrNoFamily) {
			t.Errorf("GetOverview() error = %v, want ErrNoFamily", err)
		}
	})
}

func TestInvitations(t *testing.T) {
	env := newTestEnv(t)
	admin := env.founder(t, "admin@example.com", "The Smiths")

	t.Run("redeem joins as member", func(t *testing.T) {
		joined := env.join(t, admin.ID, "bob@example.com")
		if joined.FamilyID == nil || *joined.FamilyID != *mustProfileFamily(t, env, admin.ID) {
			t.Error("redeemed profile is not in the admin's family")
		}
		if joined.Role != models.RoleMember {
			t.Errorf("redeemed role = %q, want %q", joined.Role, models.RoleMember)
		}
	})

	t.Run("members cannot invite", func(t *testing.T) {
		bob, err := env.auth.profileRepo.GetProfileByEmail("bob@example.com")
		if err != nil || bob == nil {
			t.Fatalf("failed to load bob: %v", err)
		}
		_, _, err = env.family.Invite(context.Background(), bob.ID, "carol@example.com")
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("Invite() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("spent token rejected", func(t *testing.T) {
		_, token, err := env.family.Invite(context.Background(), admin.ID, "carol@example.com")
		if err != nil {
			t.Fatalf("Invite() error = %v", err)
		}
		carol := env.register(t, "carol@example.com", "Carol")
		if _, err := env.family.Redeem(carol.ID, token); err != nil {
			t.Fatalf("Redeem() error = %v", err)
		}
		dave := env.register(t, "dave@example.com", "Dave")
		if _, err := env.family.Redeem(dave.ID, token); !errors.Is(err, ErrInviteInvalid) {
			t.Errorf("Redeem() of spent token error = %v, want ErrInviteInvalid", err)
		}
	})

	t.Run("redeem while in a family conflicts", func(t *testing.T) {
		other := env.founder(t, "other@example.com", "The Others")
		_, token, err := env.family.Invite(context.Background(), admin.ID, "other@example.com")
		if err != nil {
			t.Fatalf("Invite() error = %v", err)
		}
		if _, err := env.family.Redeem(other.ID, token); !errors.Is(err, ErrAlreadyInFamily) {
			t.Errorf("Redeem() error = %v, want ErrAlreadyInFamily", err)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		eve := env.register(t, "eve@example.com", "Eve")
		if _, err := env.family.Redeem(eve.ID, "not.a.token"); !errors.Is(err, ErrInviteInvalid) {
			t.Errorf("Redeem() error = %v, want ErrInviteInvalid", err)
		}
	})
}

func TestFamilyMembers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.founder(t, "admin@example.com", "The Smiths")

	member, err := env.family.CreateMember(admin.ID, &validation.CreateMemberInput{Name: "Grandma"})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}

	overview, err := env.family.GetOverview(admin.ID)
	if err != nil {
		t.Fatalf("GetOverview() error = %v", err)
	}
	if len(overview.Members) != 1 || overview.Members[0].Name != "Grandma" {
		t.Errorf("overview members = %+v, want Grandma", overview.Members)
	}

	t.Run("cross-family delete is not found", func(t *testing.T) {
		outsider := env.founder(t, "outsider@example.com", "The Others")
		if err := env.family.DeleteMember(outsider.ID, member.ID); !errors.Is(err, ErrMemberNotFound) {
			t.Errorf("DeleteMember() error = %v, want ErrMemberNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := env.family.DeleteMember(admin.ID, member.ID); err != nil {
			t.Fatalf("DeleteMember() error = %v", err)
		}
		if err := env.family.DeleteMember(admin.ID, member.ID); !errors.Is(err, ErrMemberNotFound) {
			t.Errorf("second DeleteMember() error = %v, want ErrMemberNotFound", err)
		}
	})
}

func TestEventVisibility(t *testing.T) {
	env := newTestEnv(t)
	admin := env.founder(t, "admin@example.com", "The Smiths")
	bob := env.join(t, admin.ID, "bob@example.com")
	outsider := env.founder(t, "outsider@example.com", "The Others")

	private := env.createEvent(t, admin.ID, "Private planning", true)
	public := env.createEvent(t, admin.ID, "Family dinner", false)

	t.Run("creator sees private", func(t *testing.T) {
		if _, err := env.event.GetEvent(admin.ID, private.ID); err != nil {
			t.Errorf("GetEvent() error = %v", err)
		}
	})

	t.Run("family peer cannot see private", func(t *testing.T) {
		if _, err := env.event.GetEvent(bob.ID, private.ID); !errors.Is(err, ErrEventNotFound) {
			t.Errorf("GetEvent() error = %v, want ErrEventNotFound", err)
		}
	})

	t.Run("cross-family is not found", func(t *testing.T) {
		if _, err := env.event.GetEvent(outsider.ID, public.ID); !errors.Is(err, ErrEventNotFound) {
			t.Errorf("GetEvent() error = %v, want ErrEventNotFound", err)
		}
	})

	t.Run("list hides private events of others", func(t *testing.T) {
		events, err := env.event.ListEvents(bob.ID, &validation.EventListQuery{Limit: validation.DefaultLimit})
		if err != nil {
			t.Fatalf("ListEvents() error = %v", err)
		}
		for _, e := range events {
			if e.ID == private.ID {
				t.Error("ListEvents() leaked another profile's private event")
			}
		}
		if len(events) != 1 {
			t.Errorf("ListEvents() returned %d events, want 1", len(events))
		}
	})

	t.Run("list shows own private events", func(t *testing.T) {
		events, err := env.event.ListEvents(admin.ID, &validation.EventListQuery{Limit: validation.DefaultLimit})
		if err != nil {
			t.Fatalf("ListEvents() error = %v", err)
		}
		if len(events) != 2 {
			t.Errorf("ListEvents() returned %d events, want 2", len(events))
		}
	})
}

func TestEventCreateChecks(t *testing.T) {
	env := newTestEnv(t)
	admin := env.founder(t, "admin@example.com", "The Smiths")
	bob := env.join(t, admin.ID, "bob@example.com")
	outsider := env.founder(t, "outsider@example.com", "The Others")
	start := time.Date(2026, 9, 12, 15, 0, 0, 0, time.UTC)

	t.Run("private cap re-checked", func(t *testing.T) {
		// Bypasses request validation on purpose; the service must still
		// refuse.
		_, err := env.event.CreateEvent(admin.ID, &validation.CreateEventInput{
			Title:          "Private party",
			StartTime:      start,
			EndTime:        start.Add(time.Hour),
			IsPrivate:      true,
			ParticipantIDs: []string{admin.ID, bob.ID},
		})
		if !errors.Is(err, ErrInvalidPrivateEvent) {
			t.Errorf("CreateEvent() error = %v, want ErrInvalidPrivateEvent", err)
		}
	})

	t.Run("cross-family participant forbidden", func(t *testing.T) {
		_, err := env.event.CreateEvent(admin.ID, &validation.CreateEventInput{
			Title:          "Dinner",
			StartTime:      start,
			EndTime:        start.Add(time.Hour),
			ParticipantIDs: []string{outsider.ID},
		})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("CreateEvent() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("unknown participant forbidden", func(t *testing.T) {
		_, err := env.event.CreateEvent(admin.ID, &validation.CreateEventInput{
			Title:          "Dinner",
			StartTime:      start,
			EndTime:        start.Add(time.Hour),
			ParticipantIDs: []string{absentID},
		})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("CreateEvent() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("no family", func(t *testing.T) {
		loner := env.register(t, "loner@example.com", "Loner")
		_, err := env.event.CreateEvent(loner.ID, &validation.CreateEventInput{
			Title:     "Dinner",
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		})
		if !errors.Is(err, ErrNoFamily) {
			t.Errorf("CreateEvent() error = %v, want ErrNoFamily", err)
		}
	})

	t.Run("repeated create makes distinct events", func(t *testing.T) {
		first := env.createEvent(t, admin.ID, "Dinner", false)
		second := env.createEvent(t, admin.ID, "Dinner", false)
		if first.ID == second.ID {
			t.Error("two creates produced the same event id")
		}
	})
}

func TestEventDelete(t *testing.T) {
	env := newTestEnv(t)
	admin := env.founder(t, "admin@example.com", "The Smiths")
	bob := env.join(t, admin.ID, "bob@example.com")

	event := env.createEvent(t, admin.ID, "Family dinner", false)

	// A task linked to the event; archiving the event must detach it.
	linked, err := env.task.CreateTask(admin.ID, &validation.CreateTaskInput{
		Title:   "Cook dinner",
		EventID: &event.ID,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	t.Run("only the creator deletes", func(t *testing.T) {
		if err := env.event.DeleteEvent(bob.ID, event.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("DeleteEvent() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("delete and repeat", func(t *testing.T) {
		if err := env.event.DeleteEvent(admin.ID, event.ID); err != nil {
			t.Fatalf("DeleteEvent() error = %v", err)
		}
		if _, err := env.event.GetEvent(admin.ID, event.ID); !errors.Is(err, ErrEventNotFound) {
			t.Errorf("GetEvent() after delete error = %v, want ErrEventNotFound", err)
		}
		// An archived event must be indistinguishable from an absent one.
		if err := env.event.DeleteEvent(admin.ID, event.ID); !errors.Is(err, ErrEventNotFound) {
			t.Errorf("repeat DeleteEvent() error = %v, want ErrEventNotFound", err)
		}
		if err := env.event.DeleteEvent(admin.ID, absentID); !errors.Is(err, ErrEventNotFound) {
			t.Errorf("DeleteEvent() of absent id error = %v, want ErrEventNotFound", err)
		}
	})

	t.Run("dependent task survives detached", func(t *testing.T) {
		tasks, err := env.task.ListTasks(admin.ID, &validation.TaskListQuery{Sort: validation.SortDueDateAsc, Limit: validation.DefaultLimit})
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("ListTasks() returned %d tasks, want 1", len(tasks))
		}
		if tasks[0].ID != linked.ID {
			t.Fatalf("ListTasks() returned task %s, want %s", tasks[0].ID, linked.ID)
		}
		if tasks[0].EventID != nil {
			t.Error("task still references the archived event")
		}
	})
}

func TestTaskFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.founder(t, "admin@example.com", "The Smiths")
	bob := env.join(t, admin.ID, "bob@example.com")
	outsider := env.founder(t, "outsider@example.com", "The Others")

	t.Run("cross-family assignee rejected before write", func(t *testing.T) {
		_, err := env.task.CreateTask(admin.ID, &validation.CreateTaskInput{
			Title:      "Walk the dog",
			AssignedTo: &outsider.ID,
		})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("CreateTask() error = %v, want ErrForbidden", err)
		}
		tasks, err := env.task.ListTasks(admin.ID, &validation.TaskListQuery{Sort: validation.SortDueDateAsc, Limit: validation.DefaultLimit})
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("rejected create still wrote %d tasks", len(tasks))
		}
	})

	task, err := env.task.CreateTask(admin.ID, &validation.CreateTaskInput{
		Title:      "Walk the dog",
		AssignedTo: &bob.ID,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	t.Run("complete stamps attribution", func(t *testing.T) {
		done, err := env.task.SetCompletion(bob.ID, task.ID, true)
		if err != nil {
			t.Fatalf("SetCompletion() error = %v", err)
		}
		if done.CompletedAt == nil || done.CompletedBy == nil || *done.CompletedBy != bob.ID {
			t.Errorf("completion not stamped: at=%v by=%v", done.CompletedAt, done.CompletedBy)
		}

		reopened, err := env.task.SetCompletion(bob.ID, task.ID, false)
		if err != nil {
			t.Fatalf("SetCompletion(false) error = %v", err)
		}
		if reopened.CompletedAt != nil || reopened.CompletedBy != nil {
			t.Error("reopening did not clear completion stamps")
		}
	})

	t.Run("completed filter", func(t *testing.T) {
		if _, err := env.task.SetCompletion(admin.ID, task.ID, true); err != nil {
			t.Fatalf("SetCompletion() error = %v", err)
		}
		completed := true
		tasks, err := env.task.ListTasks(admin.ID, &validation.TaskListQuery{
			Completed: &completed,
			Sort:      validation.SortDueDateAsc,
			Limit:     validation.DefaultLimit,
		})
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != task.ID {
			t.Errorf("completed filter returned %+v, want just the completed task", tasks)
		}

		open := false
		tasks, err = env.task.ListTasks(admin.ID, &validation.TaskListQuery{
			Completed: &open,
			Sort:      validation.SortDueDateAsc,
			Limit:     validation.DefaultLimit,
		})
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("open filter returned %d tasks, want 0", len(tasks))
		}
	})

	t.Run("private task hidden from peers", func(t *testing.T) {
		secret, err := env.task.CreateTask(admin.ID, &validation.CreateTaskInput{
			Title:     "Plan surprise",
			IsPrivate: true,
		})
		if err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
		if _, err := env.task.SetCompletion(bob.ID, secret.ID, true); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("SetCompletion() by peer error = %v, want ErrTaskNotFound", err)
		}
		if err := env.task.DeleteTask(bob.ID, secret.ID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("DeleteTask() by peer error = %v, want ErrTaskNotFound", err)
		}
		tasks, err := env.task.ListTasks(bob.ID, &validation.TaskListQuery{Sort: validation.SortDueDateAsc, Limit: validation.DefaultLimit})
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		for _, got := range tasks {
			if got.ID == secret.ID {
				t.Error("ListTasks() leaked another profile's private task")
			}
		}
	})

	t.Run("only the creator deletes", func(t *testing.T) {
		if err := env.task.DeleteTask(bob.ID, task.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("DeleteTask() error = %v, want ErrForbidden", err)
		}
		if err := env.task.DeleteTask(admin.ID, task.ID); err != nil {
			t.Fatalf("DeleteTask() error = %v", err)
		}
		// Archived and absent are the same failure.
		if err := env.task.DeleteTask(admin.ID, task.ID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("repeat DeleteTask() error = %v, want ErrTaskNotFound", err)
		}
		if _, err := env.task.SetCompletion(admin.ID, task.ID, true); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("SetCompletion() of archived task error = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestTaskSorting(t *testing.T) {
	env := newTestEnv(t)
	admin := env.founder(t, "admin@example.com", "The Smiths")

	day := func(d int) *time.Time {
		due := time.Date(2026, 9, d, 9, 0, 0, 0, time.UTC)
		return &due
	}
	for i, d := range []int{20, 10, 15} {
		if _, err := env.task.CreateTask(admin.ID, &validation.CreateTaskInput{
			Title:   "Task " + string(rune('A'+i)),
			DueDate: day(d),
		}); err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
	}

	asc, err := env.task.ListTasks(admin.ID, &validation.TaskListQuery{Sort: validation.SortDueDateAsc, Limit: validation.DefaultLimit})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(asc) != 3 {
		t.Fatalf("ListTasks() returned %d tasks, want 3", len(asc))
	}
	for i := 1; i < len(asc); i++ {
		if asc[i-1].DueDate.After(*asc[i].DueDate) {
			t.Errorf("ascending sort violated at %d: %v > %v", i, asc[i-1].DueDate, asc[i].DueDate)
		}
	}

	desc, err := env.task.ListTasks(admin.ID, &validation.TaskListQuery{Sort: validation.SortDueDateDesc, Limit: validation.DefaultLimit})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	for i := 1; i < len(desc); i++ {
		if desc[i-1].DueDate.Before(*desc[i].DueDate) {
			t.Errorf("descending sort violated at %d: %v < %v", i, desc[i-1].DueDate, desc[i].DueDate)
		}
	}

	window, err := env.task.ListTasks(admin.ID, &validation.TaskListQuery{
		DueAfter:  day(12),
		DueBefore: day(18),
		Sort:      validation.SortDueDateAsc,
		Limit:     validation.DefaultLimit,
	})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(window) != 1 || window[0].DueDate.Day() != 15 {
		t.Errorf("due window returned %+v, want only the day-15 task", window)
	}
}

func TestSuggestions(t *testing.T) {
	env := newTestEnv(t)
	admin := env.founder(t, "admin@example.com", "The Smiths")

	event := env.createEvent(t, admin.ID, "Mom's Birthday Party", false)

	suggestions, err := env.event.Suggestions(admin.ID, event.ID)
	if err != nil {
		t.Fatalf("Suggestions() error = %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].SuggestionID != "birthday" {
		t.Fatalf("Suggestions() = %+v, want the birthday suggestion", suggestions)
	}

	t.Run("accept creates a linked task", func(t *testing.T) {
		task, err := env.task.CreateFromSuggestion(admin.ID, &validation.AcceptSuggestionInput{
			EventID:      event.ID,
			SuggestionID: "birthday",
		})
		if err != nil {
			t.Fatalf("CreateFromSuggestion() error = %v", err)
		}
		if !task.CreatedFromSuggestion {
			t.Error("task not marked as suggestion-born")
		}
		if task.EventID == nil || *task.EventID != event.ID {
			t.Error("task not linked to the event")
		}
		if task.SuggestionID == nil || *task.SuggestionID != "birthday" {
			t.Error("task does not record its suggestion id")
		}
		if task.Title != "Buy a gift" {
			t.Errorf("task title = %q, want %q", task.Title, "Buy a gift")
		}
	})

	t.Run("suggestion not produced by the event", func(t *testing.T) {
		_, err := env.task.CreateFromSuggestion(admin.ID, &validation.AcceptSuggestionInput{
			EventID:      event.ID,
			SuggestionID: "packing",
		})
		if !errors.Is(err, ErrSuggestionNotFound) {
			t.Errorf("CreateFromSuggestion() error = %v, want ErrSuggestionNotFound", err)
		}
	})

	t.Run("no suggestions for plain titles", func(t *testing.T) {
		plain := env.createEvent(t, admin.ID, "Lunch", false)
		suggestions, err := env.event.Suggestions(admin.ID, plain.ID)
		if err != nil {
			t.Fatalf("Suggestions() error = %v", err)
		}
		if len(suggestions) != 0 {
			t.Errorf("Suggestions() = %+v, want none", suggestions)
		}
	})
}

func mustProfileFamily(t *testing.T, env *testEnv, profileID string) *string {
	t.Helper()
	profile, err := env.auth.profileRepo.GetProfileByID(profileID)
	if err != nil || profile == nil {
		t.Fatalf("failed to load profile %s: %v", profileID, err)
	}
	return profile.FamilyID
}
