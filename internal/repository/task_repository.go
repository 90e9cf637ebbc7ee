package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamtasks/internal/model"
)

// TaskRepository handles CRUD for tasks and their recurrence rules.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task and, when present, its recurrence rule in one
// transaction.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.RecurrenceRule != nil {
		task.RecurrenceRule.ID = uuid.New().String()
		task.RecurrenceRule.TaskID = task.ID
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Preload("RecurrenceRule").
		Preload("Assignments.User").
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByTaskList(ctx context.Context, taskListID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Preload("RecurrenceRule").
		Preload("Assignments.User").
		Where("task_list_id = ?", taskListID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListRecurring returns every recurring task together with its rule, for
// periodic window extension.
func (r *TaskRepository) ListRecurring(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Preload("RecurrenceRule").
		Where("is_recurring = ?", true).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	updates := map[string]interface{}{
		"title":        task.Title,
		"description":  task.Description,
		"due_date":     task.DueDate,
		"is_recurring": task.IsRecurring,
	}
	if err := r.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// ReplaceRule upserts the recurrence rule for a task, keeping the 1:1
// invariant: a recurring task carries exactly one rule.
func (r *TaskRepository) ReplaceRule(ctx context.Context, taskID string, rule *model.RecurrenceRule) error {
	db := r.db.WithContext(ctx)
	var existing model.RecurrenceRule
	err := db.Where("task_id = ?", taskID).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"frequency":        rule.Frequency,
			"interval":         rule.Interval,
			"days_of_week":     rule.DaysOfWeek,
			"days_of_month":    rule.DaysOfMonth,
			"months_of_year":   rule.MonthsOfYear,
			"ordinal_weekdays": rule.OrdinalWeekdays,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update recurrence rule: %w", err)
		}
		rule.ID = existing.ID
		rule.TaskID = taskID
		return nil
	case err == gorm.ErrRecordNotFound:
		rule.ID = uuid.New().String()
		rule.TaskID = taskID
		if err := db.Create(rule).Error; err != nil {
			return fmt.Errorf("create recurrence rule: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find recurrence rule: %w", err)
	}
}

// DeleteRule removes the recurrence rule of a task. Existing occurrences are
// kept as historical records.
func (r *TaskRepository) DeleteRule(ctx context.Context, taskID string) error {
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&model.RecurrenceRule{}).Error; err != nil {
		return fmt.Errorf("delete recurrence rule: %w", err)
	}
	return nil
}

// Delete removes a task and everything it owns in one transaction.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		occurrenceIDs := tx.Model(&model.Occurrence{}).Select("id").Where("task_id = ?", id)
		if err := tx.Where("occurrence_id IN (?)", occurrenceIDs).Delete(&model.Completion{}).Error; err != nil {
			return fmt.Errorf("delete completions: %w", err)
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.Occurrence{}).Error; err != nil {
			return fmt.Errorf("delete occurrences: %w", err)
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.RecurrenceRule{}).Error; err != nil {
			return fmt.Errorf("delete recurrence rule: %w", err)
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.Assignment{}).Error; err != nil {
			return fmt.Errorf("delete assignments: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
	return err
}

// CreateAssignment records a user as responsible for a task.
func (r *TaskRepository) CreateAssignment(ctx context.Context, assignment *model.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (r *TaskRepository) DeleteAssignment(ctx context.Context, taskID, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&model.Assignment{}).Error; err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
