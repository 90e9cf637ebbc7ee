package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"teamtasks/internal/recurrence"
	"teamtasks/internal/repository"
)

// DefaultHorizonDays is how far ahead occurrences are materialized.
const DefaultHorizonDays = 30

// MaterializerService turns recurrence rules into persisted occurrences
// inside a rolling forward window. It runs synchronously when invoked; any
// periodic re-invocation is wired by the caller.
type MaterializerService struct {
	taskRepo       *repository.TaskRepository
	occurrenceRepo *repository.OccurrenceRepository
	horizonDays    int

	// Now is the clock used for the window start; overridable in tests.
	Now func() time.Time
}

func NewMaterializerService(taskRepo *repository.TaskRepository, occurrenceRepo *repository.OccurrenceRepository, horizonDays int) *MaterializerService {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &MaterializerService{
		taskRepo:       taskRepo,
		occurrenceRepo: occurrenceRepo,
		horizonDays:    horizonDays,
		Now:            time.Now,
	}
}

// Materialize creates the missing occurrences for a task within
// [now, now+horizon]. A task without a recurrence rule is a no-op, not an
// error. Already-materialized due dates are left untouched, so repeated
// calls are idempotent.
func (s *MaterializerService) Materialize(ctx context.Context, taskID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("find task: %w", err)
	}
	if !task.IsRecurring || task.RecurrenceRule == nil {
		return nil
	}

	windowStart := s.Now()
	windowEnd := windowStart.AddDate(0, 0, s.horizonDays)

	var dueDates []time.Time
	for due := range recurrence.Expand(*task.RecurrenceRule, windowStart, windowEnd) {
		dueDates = append(dueDates, due)
	}
	if len(dueDates) == 0 {
		return nil
	}

	if _, err := s.occurrenceRepo.CreateMissing(ctx, task.ID, dueDates); err != nil {
		return fmt.Errorf("materialize task %s: %w", task.ID, err)
	}
	return nil
}

// MaterializeAll re-extends the window for every recurring task. A failure
// on one task does not stop the others; all failures are joined into the
// returned error.
func (s *MaterializerService) MaterializeAll(ctx context.Context) error {
	tasks, err := s.taskRepo.ListRecurring(ctx)
	if err != nil {
		return fmt.Errorf("list recurring tasks: %w", err)
	}

	var errs []error
	for _, task := range tasks {
		if err := s.Materialize(ctx, task.ID); err != nil {
			log.Printf("materialize task %s: %v", task.ID, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
