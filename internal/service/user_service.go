package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"teamtasks/internal/model"
	"teamtasks/internal/repository"
)

// UserService wraps user provisioning and profile logic. Identity
// verification itself happens outside; this service only trusts the opaque
// user id the identity collaborator hands over.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Create registers a user with a unique email.
func (s *UserService) Create(ctx context.Context, email, displayName string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", ErrInvalidInput)
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("email already exists: %w", ErrConflict)
	case err != gorm.ErrRecordNotFound:
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	user := model.User{Email: email, DisplayName: displayName}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Update changes a user's display name. Users may only update themselves.
func (s *UserService) Update(ctx context.Context, callerID, targetID, displayName string) (*model.User, error) {
	if callerID != targetID {
		return nil, fmt.Errorf("users may only update their own profile: %w", ErrForbidden)
	}

	user, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateDisplayName(ctx, user, displayName); err != nil {
		return nil, err
	}
	user.DisplayName = displayName
	return user, nil
}

// EnsureIdentity provisions a user row on first sight of a verified identity
// and refreshes the display-name hint on later sign-ins.
func (s *UserService) EnsureIdentity(ctx context.Context, id, email, displayName string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("verified user id is required: %w", ErrInvalidInput)
	}
	return s.userRepo.UpsertFromIdentity(ctx, id, email, displayName)
}
