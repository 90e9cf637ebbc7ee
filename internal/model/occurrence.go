package model

import "time"

// Occurrence is one concrete scheduled instance of a task. Occurrences are
// materialized from a recurrence rule, never created directly by clients.
// Unique per (task, due date).
type Occurrence struct {
	ID          string       `gorm:"primaryKey" json:"id"`
	TaskID      string       `gorm:"index:idx_occurrence_task_due,unique" json:"taskId"`
	DueDate     time.Time    `gorm:"index:idx_occurrence_task_due,unique" json:"dueDate"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Task        *Task        `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Completions []Completion `gorm:"foreignKey:OccurrenceID" json:"completions,omitempty"`
}

// Completion records that a user marked an occurrence done. Presence of the
// row means complete for that user; CompletedAt is set once on creation.
// Unique per (occurrence, user).
type Completion struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	OccurrenceID string    `gorm:"index:idx_completion_occurrence_user,unique" json:"occurrenceId"`
	UserID       string    `gorm:"index:idx_completion_occurrence_user,unique" json:"userId"`
	CompletedAt  time.Time `json:"completedAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
