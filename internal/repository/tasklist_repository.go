package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamtasks/internal/model"
)

// TaskListRepository handles task lists and their memberships.
type TaskListRepository struct {
	db *gorm.DB
}

func NewTaskListRepository(db *gorm.DB) *TaskListRepository {
	return &TaskListRepository{db: db}
}

// CreateWithOwner creates a task list together with its OWNER membership in
// one transaction, so no reader can observe a list without an owner.
func (r *TaskListRepository) CreateWithOwner(ctx context.Context, list *model.TaskList, ownerID string) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(list).Error; err != nil {
			return fmt.Errorf("create task list: %w", err)
		}
		membership := model.Membership{
			ID:         uuid.New().String(),
			UserID:     ownerID,
			TaskListID: list.ID,
			Role:       model.RoleOwner,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return fmt.Errorf("create owner membership: %w", err)
		}
		list.Memberships = []model.Membership{membership}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (r *TaskListRepository) FindByID(ctx context.Context, id string) (*model.TaskList, error) {
	var list model.TaskList
	if err := r.db.WithContext(ctx).
		Preload("Memberships.User").
		Where("id = ?", id).
		First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByMember returns every task list the user holds a membership in.
func (r *TaskListRepository) ListByMember(ctx context.Context, userID string) ([]model.TaskList, error) {
	var lists []model.TaskList
	if err := r.db.WithContext(ctx).
		Preload("Memberships.User").
		Where("id IN (?)", r.db.Model(&model.Membership{}).Select("task_list_id").Where("user_id = ?", userID)).
		Order("created_at ASC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *TaskListRepository) Update(ctx context.Context, list *model.TaskList) error {
	updates := map[string]interface{}{
		"name":        list.Name,
		"description": list.Description,
	}
	if err := r.db.WithContext(ctx).Model(list).Updates(updates).Error; err != nil {
		return fmt.Errorf("update task list: %w", err)
	}
	return nil
}

// DeleteCascade removes a task list and everything it owns: tasks with their
// recurrence rules, occurrences, completions and assignments, then the
// memberships, then the list itself. The whole cascade is one transaction so
// readers never see an orphaned list with dangling children.
func (r *TaskListRepository) DeleteCascade(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&model.Task{}).Select("id").Where("task_list_id = ?", id)
		occurrenceIDs := tx.Model(&model.Occurrence{}).Select("id").
			Where("task_id IN (?)", tx.Model(&model.Task{}).Select("id").Where("task_list_id = ?", id))

		if err := tx.Where("occurrence_id IN (?)", occurrenceIDs).Delete(&model.Completion{}).Error; err != nil {
			return fmt.Errorf("delete completions: %w", err)
		}
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&model.Occurrence{}).Error; err != nil {
			return fmt.Errorf("delete occurrences: %w", err)
		}
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&model.RecurrenceRule{}).Error; err != nil {
			return fmt.Errorf("delete recurrence rules: %w", err)
		}
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&model.Assignment{}).Error; err != nil {
			return fmt.Errorf("delete assignments: %w", err)
		}
		if err := tx.Where("task_list_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if err := tx.Where("task_list_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&model.TaskList{}).Error; err != nil {
			return fmt.Errorf("delete task list: %w", err)
		}
		return nil
	})
	return err
}

// FindMembership returns the membership binding a user to a task list, or
// gorm.ErrRecordNotFound when the user has no access.
func (r *TaskListRepository) FindMembership(ctx context.Context, userID, taskListID string) (*model.Membership, error) {
	var membership model.Membership
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_list_id = ?", userID, taskListID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *TaskListRepository) CreateMembership(ctx context.Context, membership *model.Membership) error {
	if membership.ID == "" {
		membership.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

func (r *TaskListRepository) DeleteMembership(ctx context.Context, userID, taskListID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_list_id = ?", userID, taskListID).
		Delete(&model.Membership{}).Error; err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}

func (r *TaskListRepository) ListMemberships(ctx context.Context, taskListID string) ([]model.Membership, error) {
	var memberships []model.Membership
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("task_list_id = ?", taskListID).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
