package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"teamtasks/internal/model"
	"teamtasks/internal/repository"
)

// RuleInput describes a recurrence rule on task create/update.
type RuleInput struct {
	Frequency       model.Frequency
	Interval        int
	DaysOfWeek      []int
	DaysOfMonth     []int
	MonthsOfYear    []int
	OrdinalWeekdays []model.OrdinalWeekday
}

// TaskInput represents data required to create or update a task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	IsRecurring bool
	Rule        *RuleInput
}

// TaskService wraps task-related business logic: CRUD, the recurrence state
// machine and assignment management. Recurring creates and updates trigger
// occurrence materialization synchronously.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	taskListRepo *repository.TaskListRepository
	materializer *MaterializerService
}

func NewTaskService(taskRepo *repository.TaskRepository, taskListRepo *repository.TaskListRepository, materializer *MaterializerService) *TaskService {
	return &TaskService{taskRepo: taskRepo, taskListRepo: taskListRepo, materializer: materializer}
}

// Create adds a task to a list; requires ADMIN. A recurring task gets its
// rule attached (frequency defaults to DAILY, interval to 1) and its first
// window of occurrences materialized before returning.
func (s *TaskService) Create(ctx context.Context, userID, taskListID string, input TaskInput) (*model.Task, error) {
	if err := s.authorizeOnList(ctx, userID, taskListID, ActionManageTasks); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidInput)
	}

	task := model.Task{
		TaskListID:  taskListID,
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		IsRecurring: input.IsRecurring,
	}
	if input.IsRecurring {
		task.RecurrenceRule = buildRule(input.Rule)
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}

	if task.IsRecurring {
		if err := s.materializer.Materialize(ctx, task.ID); err != nil {
			return nil, err
		}
	}
	return &task, nil
}

// List returns the tasks of a list; requires MEMBER.
func (s *TaskService) List(ctx context.Context, userID, taskListID string) ([]model.Task, error) {
	if err := s.authorizeOnList(ctx, userID, taskListID, ActionRead); err != nil {
		return nil, err
	}
	return s.taskRepo.ListByTaskList(ctx, taskListID)
}

// Get returns a task by id; requires MEMBER on the owning list.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOnList(ctx, userID, task.TaskListID, ActionRead); err != nil {
		return nil, err
	}
	return task, nil
}

// Update rewrites a task; requires ADMIN. Toggling IsRecurring on attaches
// (or replaces) the rule and re-materializes; toggling it off deletes the
// rule while previously materialized occurrences stay as history.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, input TaskInput) (*model.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOnList(ctx, userID, task.TaskListID, ActionManageTasks); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidInput)
	}

	task.Title = title
	task.Description = input.Description
	task.DueDate = input.DueDate
	task.IsRecurring = input.IsRecurring
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	if input.IsRecurring {
		rule := buildRule(input.Rule)
		if err := s.taskRepo.ReplaceRule(ctx, taskID, rule); err != nil {
			return nil, err
		}
		if err := s.materializer.Materialize(ctx, taskID); err != nil {
			return nil, err
		}
	} else {
		if err := s.taskRepo.DeleteRule(ctx, taskID); err != nil {
			return nil, err
		}
	}

	return s.findTask(ctx, taskID)
}

// Delete removes a task with its rule, occurrences and completions;
// requires ADMIN.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.authorizeOnList(ctx, userID, task.TaskListID, ActionManageTasks); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}

// Assign marks a member of the owning list as responsible for a task;
// requires ADMIN.
func (s *TaskService) Assign(ctx context.Context, userID, taskID, assigneeID string) (*model.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOnList(ctx, userID, task.TaskListID, ActionManageTasks); err != nil {
		return nil, err
	}

	if _, err := s.taskListRepo.FindMembership(ctx, assigneeID, task.TaskListID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("assignee is not a member of the task list: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}

	for _, a := range task.Assignments {
		if a.UserID == assigneeID {
			return task, nil
		}
	}

	assignment := model.Assignment{TaskID: taskID, UserID: assigneeID}
	if err := s.taskRepo.CreateAssignment(ctx, &assignment); err != nil {
		return nil, err
	}
	return s.findTask(ctx, taskID)
}

// Unassign removes a responsibility pairing; requires ADMIN. Absence is not
// an error.
func (s *TaskService) Unassign(ctx context.Context, userID, taskID, assigneeID string) (*model.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOnList(ctx, userID, task.TaskListID, ActionManageTasks); err != nil {
		return nil, err
	}
	if err := s.taskRepo.DeleteAssignment(ctx, taskID, assigneeID); err != nil {
		return nil, err
	}
	return s.findTask(ctx, taskID)
}

func buildRule(input *RuleInput) *model.RecurrenceRule {
	rule := model.RecurrenceRule{
		Frequency:       model.FrequencyDaily,
		Interval:        1,
		DaysOfWeek:      model.IntList{},
		DaysOfMonth:     model.IntList{},
		MonthsOfYear:    model.IntList{},
		OrdinalWeekdays: model.OrdinalWeekdays{},
	}
	if input == nil {
		return &rule
	}
	if input.Frequency != "" {
		rule.Frequency = input.Frequency
	}
	if input.Interval > 0 {
		rule.Interval = input.Interval
	}
	if input.DaysOfWeek != nil {
		rule.DaysOfWeek = model.IntList(input.DaysOfWeek)
	}
	if input.DaysOfMonth != nil {
		rule.DaysOfMonth = model.IntList(input.DaysOfMonth)
	}
	if input.MonthsOfYear != nil {
		rule.MonthsOfYear = model.IntList(input.MonthsOfYear)
	}
	if input.OrdinalWeekdays != nil {
		rule.OrdinalWeekdays = model.OrdinalWeekdays(input.OrdinalWeekdays)
	}
	return &rule
}

func (s *TaskService) findTask(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) authorizeOnList(ctx context.Context, userID, taskListID string, action Action) error {
	if _, err := s.taskListRepo.FindByID(ctx, taskListID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("task list %s: %w", taskListID, ErrNotFound)
		}
		return fmt.Errorf("find task list: %w", err)
	}
	membership, err := s.taskListRepo.FindMembership(ctx, userID, taskListID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("find membership: %w", err)
	}
	return authorize(membership, action)
}
