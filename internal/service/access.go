package service

import (
	"fmt"

	"teamtasks/internal/model"
)

// Action is a category of operation on a shared task list. Every mutation
// path goes through authorize with one of these instead of re-deriving role
// comparisons at the call site.
type Action int

const (
	ActionRead Action = iota
	ActionUpdateList
	ActionDeleteList
	ActionManageMembers
	ActionManageTasks
)

// minimumRole is the single policy table: the weakest role that may perform
// each action.
var minimumRole = map[Action]model.Role{
	ActionRead:          model.RoleMember,
	ActionUpdateList:    model.RoleAdmin,
	ActionManageMembers: model.RoleAdmin,
	ActionManageTasks:   model.RoleAdmin,
	ActionDeleteList:    model.RoleOwner,
}

var roleRank = map[model.Role]int{
	model.RoleMember: 1,
	model.RoleAdmin:  2,
	model.RoleOwner:  3,
}

// authorize checks that a membership grants at least the minimum role for
// the action. A nil membership always fails, regardless of action.
func authorize(membership *model.Membership, action Action) error {
	if membership == nil {
		return fmt.Errorf("no access to this task list: %w", ErrForbidden)
	}
	min, ok := minimumRole[action]
	if !ok {
		return fmt.Errorf("unknown action %d: %w", action, ErrForbidden)
	}
	if roleRank[membership.Role] < roleRank[min] {
		return fmt.Errorf("requires at least %s role: %w", min, ErrForbidden)
	}
	return nil
}
