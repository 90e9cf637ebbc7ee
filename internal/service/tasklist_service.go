package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"teamtasks/internal/model"
	"teamtasks/internal/repository"
)

// TaskListService is the authorization-checked façade over task lists,
// memberships and their occurrences. Every mutation passes through the
// single policy table in access.go.
type TaskListService struct {
	taskListRepo   *repository.TaskListRepository
	userRepo       *repository.UserRepository
	occurrenceRepo *repository.OccurrenceRepository
}

func NewTaskListService(taskListRepo *repository.TaskListRepository, userRepo *repository.UserRepository, occurrenceRepo *repository.OccurrenceRepository) *TaskListService {
	return &TaskListService{
		taskListRepo:   taskListRepo,
		userRepo:       userRepo,
		occurrenceRepo: occurrenceRepo,
	}
}

// Create makes a task list and its OWNER membership atomically; the creator
// becomes the owner.
func (s *TaskListService) Create(ctx context.Context, ownerID, name, description string) (*model.TaskList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrInvalidInput)
	}

	list := model.TaskList{Name: name, Description: description}
	if err := s.taskListRepo.CreateWithOwner(ctx, &list, ownerID); err != nil {
		return nil, err
	}
	return &list, nil
}

// List returns every task list the caller is a member of.
func (s *TaskListService) List(ctx context.Context, userID string) ([]model.TaskList, error) {
	return s.taskListRepo.ListByMember(ctx, userID)
}

// Get returns a task list the caller has at least MEMBER access to.
func (s *TaskListService) Get(ctx context.Context, userID, listID string) (*model.TaskList, error) {
	list, err := s.findList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMember(ctx, userID, listID, ActionRead); err != nil {
		return nil, err
	}
	return list, nil
}

// Update renames a task list; requires ADMIN.
func (s *TaskListService) Update(ctx context.Context, userID, listID, name, description string) (*model.TaskList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrInvalidInput)
	}

	list, err := s.findList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMember(ctx, userID, listID, ActionUpdateList); err != nil {
		return nil, err
	}

	list.Name = name
	list.Description = description
	if err := s.taskListRepo.Update(ctx, list); err != nil {
		return nil, err
	}
	return s.findList(ctx, listID)
}

// Delete removes a task list with all its tasks and memberships; requires
// OWNER. The cascade runs as one transaction.
func (s *TaskListService) Delete(ctx context.Context, userID, listID string) error {
	if _, err := s.findList(ctx, listID); err != nil {
		return err
	}
	if err := s.authorizeMember(ctx, userID, listID, ActionDeleteList); err != nil {
		return err
	}
	return s.taskListRepo.DeleteCascade(ctx, listID)
}

// AddMember adds a user to a task list; requires ADMIN. The role defaults to
// MEMBER; a second OWNER can never be added, the owner is fixed at creation.
func (s *TaskListService) AddMember(ctx context.Context, requesterID, listID, userID string, role model.Role) (*model.Membership, error) {
	if _, err := s.findList(ctx, listID); err != nil {
		return nil, err
	}
	if err := s.authorizeMember(ctx, requesterID, listID, ActionManageMembers); err != nil {
		return nil, err
	}

	if role == "" {
		role = model.RoleMember
	}
	if role == model.RoleOwner {
		return nil, fmt.Errorf("a task list has exactly one owner: %w", ErrForbidden)
	}
	if role != model.RoleAdmin && role != model.RoleMember {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrInvalidInput)
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if _, err := s.taskListRepo.FindMembership(ctx, userID, listID); err == nil {
		return nil, fmt.Errorf("user is already a member: %w", ErrConflict)
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("find membership: %w", err)
	}

	membership := model.Membership{UserID: userID, TaskListID: listID, Role: role}
	if err := s.taskListRepo.CreateMembership(ctx, &membership); err != nil {
		return nil, err
	}
	return &membership, nil
}

// RemoveMember removes a user from a task list and returns the updated
// membership set; requires ADMIN. The OWNER membership can never be removed
// through this path, only by deleting the whole list.
func (s *TaskListService) RemoveMember(ctx context.Context, requesterID, listID, userID string) ([]model.Membership, error) {
	if _, err := s.findList(ctx, listID); err != nil {
		return nil, err
	}
	if err := s.authorizeMember(ctx, requesterID, listID, ActionManageMembers); err != nil {
		return nil, err
	}

	target, err := s.taskListRepo.FindMembership(ctx, userID, listID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("membership: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	if target.Role == model.RoleOwner {
		return nil, fmt.Errorf("cannot remove the owner of the task list: %w", ErrForbidden)
	}

	if err := s.taskListRepo.DeleteMembership(ctx, userID, listID); err != nil {
		return nil, err
	}
	return s.taskListRepo.ListMemberships(ctx, listID)
}

// ListMembers returns the memberships of a task list; requires MEMBER.
func (s *TaskListService) ListMembers(ctx context.Context, userID, listID string) ([]model.Membership, error) {
	if _, err := s.findList(ctx, listID); err != nil {
		return nil, err
	}
	if err := s.authorizeMember(ctx, userID, listID, ActionRead); err != nil {
		return nil, err
	}
	return s.taskListRepo.ListMemberships(ctx, listID)
}

// ListOccurrences returns all occurrences of every task in a list; requires
// MEMBER.
func (s *TaskListService) ListOccurrences(ctx context.Context, userID, listID string) ([]model.Occurrence, error) {
	if _, err := s.findList(ctx, listID); err != nil {
		return nil, err
	}
	if err := s.authorizeMember(ctx, userID, listID, ActionRead); err != nil {
		return nil, err
	}
	return s.occurrenceRepo.ListByTaskList(ctx, listID)
}

func (s *TaskListService) findList(ctx context.Context, listID string) (*model.TaskList, error) {
	list, err := s.taskListRepo.FindByID(ctx, listID)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("task list %s: %w", listID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find task list: %w", err)
	}
	return list, nil
}

func (s *TaskListService) authorizeMember(ctx context.Context, userID, listID string, action Action) error {
	membership, err := s.taskListRepo.FindMembership(ctx, userID, listID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("find membership: %w", err)
	}
	return authorize(membership, action)
}
