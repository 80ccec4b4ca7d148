package service

import (
	"context"
	"fmt"

	"financetracker/internal/auth"
	"financetracker/internal/model"
	"financetracker/internal/repository"
)

// UpdateUserInput holds a partial user update. Nil fields are left unchanged.
type UpdateUserInput struct {
	Username  *string
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// UserService exposes user operations. Mutations are restricted to the
// account's owner.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, caller *auth.Identity, id uint, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, caller *auth.Identity, id uint) error
}

type userService struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
	guard  *auth.Guard
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, hasher auth.PasswordHasher, guard *auth.Guard) UserService {
	return &userService{repo: repo, hasher: hasher, guard: guard}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) UpdateUser(ctx context.Context, caller *auth.Identity, id uint, in UpdateUserInput) (*model.User, error) {
	if err := s.guard.AuthorizeOwnership(caller, id); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username, err := normalizeUsername(*in.Username)
		if err != nil {
			return nil, err
		}
		if username != user.Username {
			if err := ensureUsernameFree(ctx, s.repo, username, user.ID); err != nil {
				return nil, err
			}
			user.Username = username
		}
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			if err := ensureEmailFree(ctx, s.repo, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.Password != nil {
		if err := checkPassword(*in.Password); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return user, nil
}

// DeleteUser removes the caller's own account and its transactions.
func (s *userService) DeleteUser(ctx context.Context, caller *auth.Identity, id uint) error {
	if err := s.guard.AuthorizeOwnership(caller, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
