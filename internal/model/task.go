package model

import "time"

// Frequency is the base calendar unit of a recurrence rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// Task is a single item in a task list. A recurring task carries exactly one
// recurrence rule; a non-recurring one carries none and may use DueDate.
type Task struct {
	ID             string          `gorm:"primaryKey" json:"id"`
	TaskListID     string          `gorm:"index" json:"taskListId"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	IsRecurring    bool            `gorm:"default:false" json:"isRecurring"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	RecurrenceRule *RecurrenceRule `gorm:"foreignKey:TaskID" json:"recurrenceRule,omitempty"`
	Occurrences    []Occurrence    `gorm:"foreignKey:TaskID" json:"occurrences,omitempty"`
	Assignments    []Assignment    `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// RecurrenceRule describes which calendar dates produce occurrences of its
// task. Selector fields are interpreted per frequency; OrdinalWeekdays is
// stored for forward compatibility and not yet consulted during expansion.
type RecurrenceRule struct {
	ID              string          `gorm:"primaryKey" json:"id"`
	TaskID          string          `gorm:"uniqueIndex" json:"taskId"`
	Frequency       Frequency       `gorm:"default:DAILY" json:"frequency"`
	Interval        int             `gorm:"default:1" json:"interval"`
	DaysOfWeek      IntList         `gorm:"type:text" json:"daysOfWeek"`
	DaysOfMonth     IntList         `gorm:"type:text" json:"daysOfMonth"`
	MonthsOfYear    IntList         `gorm:"type:text" json:"monthsOfYear"`
	OrdinalWeekdays OrdinalWeekdays `gorm:"type:text" json:"ordinalWeekdays"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrdinalWeekday names the Nth weekday of a month or year, e.g. the second
// Tuesday. Weekday uses 0 for Sunday, Ordinal runs 1 through 5.
type OrdinalWeekday struct {
	Weekday int `json:"weekday"`
	Ordinal int `json:"ordinal"`
}

// Assignment marks a user as responsible for a task.
type Assignment struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	TaskID    string    `gorm:"index:idx_assignment_task_user,unique" json:"taskId"`
	UserID    string    `gorm:"index:idx_assignment_task_user,unique" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
