package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"teamtasks/internal/model"
	"teamtasks/internal/repository"
)

// CompletionService toggles a user's completion record for an occurrence.
// Both directions are idempotent: repeated completes keep the original
// timestamp, repeated uncompletes are not an error.
type CompletionService struct {
	occurrenceRepo *repository.OccurrenceRepository
	taskListRepo   *repository.TaskListRepository

	// Now supplies the completion timestamp; overridable in tests.
	Now func() time.Time
}

func NewCompletionService(occurrenceRepo *repository.OccurrenceRepository, taskListRepo *repository.TaskListRepository) *CompletionService {
	return &CompletionService{
		occurrenceRepo: occurrenceRepo,
		taskListRepo:   taskListRepo,
		Now:            time.Now,
	}
}

// SetCompletion marks an occurrence done or not done for a user and returns
// the occurrence with its current completion set, so the caller can render
// state without a second round trip. MEMBER access to the owning task list
// is enough for either direction.
func (s *CompletionService) SetCompletion(ctx context.Context, userID, occurrenceID string, completed bool) (*model.Occurrence, error) {
	occurrence, err := s.occurrenceRepo.FindByID(ctx, occurrenceID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("occurrence %s: %w", occurrenceID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find occurrence: %w", err)
	}
	if occurrence.Task == nil {
		return nil, fmt.Errorf("occurrence %s has no task: %w", occurrenceID, ErrInvariant)
	}

	membership, err := s.taskListRepo.FindMembership(ctx, userID, occurrence.Task.TaskListID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	if err := authorize(membership, ActionRead); err != nil {
		return nil, err
	}

	if completed {
		if err := s.occurrenceRepo.UpsertCompletion(ctx, occurrenceID, userID, s.Now()); err != nil {
			return nil, err
		}
	} else {
		if err := s.occurrenceRepo.DeleteCompletion(ctx, occurrenceID, userID); err != nil {
			return nil, err
		}
	}

	return s.occurrenceRepo.FindWithCompletions(ctx, occurrenceID)
}
