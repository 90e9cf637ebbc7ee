package service

import (
	"context"
	"testing"
	"time"

	"teamtasks/internal/model"
	"teamtasks/internal/repository"
	"teamtasks/internal/testutil"
)

// fixedNow is the clock used by tests that pin the materialization window.
// Midnight keeps the whole first day inside the window.
var fixedNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	users        *UserService
	taskLists    *TaskListService
	tasks        *TaskService
	completions  *CompletionService
	materializer *MaterializerService

	userRepo       *repository.UserRepository
	taskListRepo   *repository.TaskListRepository
	taskRepo       *repository.TaskRepository
	occurrenceRepo *repository.OccurrenceRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)

	userRepo := repository.NewUserRepository(db)
	taskListRepo := repository.NewTaskListRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	occurrenceRepo := repository.NewOccurrenceRepository(db)

	materializer := NewMaterializerService(taskRepo, occurrenceRepo, DefaultHorizonDays)
	materializer.Now = func() time.Time { return fixedNow }

	completions := NewCompletionService(occurrenceRepo, taskListRepo)
	completions.Now = func() time.Time { return fixedNow }

	return &testEnv{
		users:          NewUserService(userRepo),
		taskLists:      NewTaskListService(taskListRepo, userRepo, occurrenceRepo),
		tasks:          NewTaskService(taskRepo, taskListRepo, materializer),
		completions:    completions,
		materializer:   materializer,
		userRepo:       userRepo,
		taskListRepo:   taskListRepo,
		taskRepo:       taskRepo,
		occurrenceRepo: occurrenceRepo,
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := e.users.Create(context.Background(), email, "user "+email)
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

// createList makes a list owned by owner and adds the extra members with the
// given roles.
func (e *testEnv) createList(t *testing.T, owner *model.User, members map[*model.User]model.Role) *model.TaskList {
	t.Helper()
	list, err := e.taskLists.Create(context.Background(), owner.ID, "groceries", "weekly shopping")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	for member, role := range members {
		if _, err := e.taskLists.AddMember(context.Background(), owner.ID, list.ID, member.ID, role); err != nil {
			t.Fatalf("add member %s: %v", member.Email, err)
		}
	}
	return list
}

func (e *testEnv) createDailyTask(t *testing.T, userID, listID string) *model.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), userID, listID, TaskInput{
		Title:       "water the plants",
		IsRecurring: true,
		Rule:        &RuleInput{Frequency: model.FrequencyDaily, Interval: 1},
	})
	if err != nil {
		t.Fatalf("create recurring task: %v", err)
	}
	return task
}
