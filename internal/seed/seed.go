// Package seed fills an empty database with demo data for local
// development.
package seed

import (
	"context"
	"fmt"
	"time"

	"teamtasks/internal/model"
	"teamtasks/internal/service"
)

// Demo creates a demo user with one task list holding a weekday-recurring
// task and a one-off task. Running against a non-empty database returns a
// conflict from the user create; callers should treat that as "already
// seeded".
func Demo(ctx context.Context, users *service.UserService, taskLists *service.TaskListService, tasks *service.TaskService) error {
	user, err := users.Create(ctx, "test@example.com", "Test User")
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	list, err := taskLists.Create(ctx, user.ID, "My First Task List", "A list of tasks to get started")
	if err != nil {
		return fmt.Errorf("seed task list: %w", err)
	}

	_, err = tasks.Create(ctx, user.ID, list.ID, service.TaskInput{
		Title:       "Daily Standup",
		Description: "Team daily standup meeting",
		IsRecurring: true,
		Rule: &service.RuleInput{
			Frequency:  model.FrequencyDaily,
			Interval:   1,
			DaysOfWeek: []int{1, 2, 3, 4, 5},
		},
	})
	if err != nil {
		return fmt.Errorf("seed recurring task: %w", err)
	}

	deadline := time.Now().AddDate(0, 1, 0)
	_, err = tasks.Create(ctx, user.ID, list.ID, service.TaskInput{
		Title:       "Project Deadline",
		Description: "Submit final project deliverables",
		DueDate:     &deadline,
	})
	if err != nil {
		return fmt.Errorf("seed one-off task: %w", err)
	}

	return nil
}
