package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamtasks/internal/model"
)

// OccurrenceRepository handles materialized occurrences and their
// per-user completions.
type OccurrenceRepository struct {
	db *gorm.DB
}

func NewOccurrenceRepository(db *gorm.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

func (r *OccurrenceRepository) FindByID(ctx context.Context, id string) (*model.Occurrence, error) {
	var occurrence model.Occurrence
	if err := r.db.WithContext(ctx).
		Preload("Task").
		Where("id = ?", id).
		First(&occurrence).Error; err != nil {
		return nil, err
	}
	return &occurrence, nil
}

// FindWithCompletions loads an occurrence together with its parent task and
// the full completion set including user info.
func (r *OccurrenceRepository) FindWithCompletions(ctx context.Context, id string) (*model.Occurrence, error) {
	var occurrence model.Occurrence
	if err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Completions.User").
		Where("id = ?", id).
		First(&occurrence).Error; err != nil {
		return nil, err
	}
	return &occurrence, nil
}

// ListByTaskList returns all occurrences of every task in a list.
func (r *OccurrenceRepository) ListByTaskList(ctx context.Context, taskListID string) ([]model.Occurrence, error) {
	var occurrences []model.Occurrence
	if err := r.db.WithContext(ctx).
		Preload("Completions.User").
		Where("task_id IN (?)", r.db.Model(&model.Task{}).Select("id").Where("task_list_id = ?", taskListID)).
		Order("due_date ASC").
		Find(&occurrences).Error; err != nil {
		return nil, err
	}
	return occurrences, nil
}

// CreateMissing inserts an occurrence for every due date that does not yet
// exist for the task. The existence re-check and the inserts run in a single
// transaction; the unique (task_id, due_date) index backstops concurrent
// materializations of the same task. Returns the number of rows created.
func (r *OccurrenceRepository) CreateMissing(ctx context.Context, taskID string, dueDates []time.Time) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, due := range dueDates {
			var count int64
			if err := tx.Model(&model.Occurrence{}).
				Where("task_id = ? AND due_date = ?", taskID, due).
				Count(&count).Error; err != nil {
				return fmt.Errorf("check occurrence: %w", err)
			}
			if count > 0 {
				continue
			}
			occurrence := model.Occurrence{
				ID:      uuid.New().String(),
				TaskID:  taskID,
				DueDate: due,
			}
			if err := tx.Create(&occurrence).Error; err != nil {
				return fmt.Errorf("create occurrence: %w", err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (r *OccurrenceRepository) CountByTask(ctx context.Context, taskID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Occurrence{}).
		Where("task_id = ?", taskID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpsertCompletion records a completion for (occurrence, user) unless one
// already exists. Repeated calls leave the original CompletedAt untouched.
func (r *OccurrenceRepository) UpsertCompletion(ctx context.Context, occurrenceID, userID string, completedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Completion
		err := tx.Where("occurrence_id = ? AND user_id = ?", occurrenceID, userID).
			First(&existing).Error
		switch {
		case err == nil:
			return nil
		case err == gorm.ErrRecordNotFound:
			completion := model.Completion{
				ID:           uuid.New().String(),
				OccurrenceID: occurrenceID,
				UserID:       userID,
				CompletedAt:  completedAt,
			}
			if err := tx.Create(&completion).Error; err != nil {
				return fmt.Errorf("create completion: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("find completion: %w", err)
		}
	})
}

// DeleteCompletion removes the completion for (occurrence, user). Absence is
// not an error.
func (r *OccurrenceRepository) DeleteCompletion(ctx context.Context, occurrenceID, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("occurrence_id = ? AND user_id = ?", occurrenceID, userID).
		Delete(&model.Completion{}).Error; err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

func (r *OccurrenceRepository) CountCompletions(ctx context.Context, occurrenceID, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Completion{}).
		Where("occurrence_id = ? AND user_id = ?", occurrenceID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
