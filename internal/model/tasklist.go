package model

import "time"

// Role grants a member a level of control over a task list.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// TaskList is a shared collection of tasks. Every list has exactly one
// OWNER membership from the moment it is created until it is deleted.
type TaskList struct {
	ID          string       `gorm:"primaryKey" json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Memberships []Membership `gorm:"foreignKey:TaskListID" json:"memberships,omitempty"`
	Tasks       []Task       `gorm:"foreignKey:TaskListID" json:"tasks,omitempty"`
}

// Membership binds a user to a task list with a role. Unique per
// (user, task list).
type Membership struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index:idx_membership_user_list,unique" json:"userId"`
	TaskListID string    `gorm:"index:idx_membership_user_list,unique" json:"taskListId"`
	Role       Role      `gorm:"default:MEMBER" json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
