package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"financetracker/internal/auth"
	apperrors "financetracker/internal/errors"
	"financetracker/internal/model"
	"financetracker/internal/repository"
)

// RegisterInput carries the fields accepted on registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginResult is a signed token together with the user it identifies.
type LoginResult struct {
	Token *auth.IssuedToken
	User  *model.User
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, identity *auth.Identity) error
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens *auth.TokenService
	guard  *auth.Guard
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenService, guard *auth.Guard) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		guard:  guard,
	}
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	var err error
	if in.Username, err = normalizeUsername(in.Username); err != nil {
		return nil, err
	}
	if in.Email, err = normalizeEmail(in.Email); err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	if err := ensureUsernameFree(ctx, s.users, in.Username, 0); err != nil {
		return nil, err
	}
	if err := ensureEmailFree(ctx, s.users, in.Email, 0); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a token. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	issued, err := s.tokens.IssueToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: issued, User: user}, nil
}

// Logout revokes the caller's current token when revocation is configured.
func (s *authService) Logout(ctx context.Context, identity *auth.Identity) error {
	if identity == nil {
		return nil
	}
	if err := s.guard.Revoke(ctx, identity); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// ensureUsernameFree fails with ErrUsernameTaken when another user (not
// selfID) already holds username.
func ensureUsernameFree(ctx context.Context, users repository.UserRepository, username string, selfID uint) error {
	existing, err := users.FindByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if existing.ID != selfID {
		return apperrors.ErrUsernameTaken
	}
	return nil
}

func ensureEmailFree(ctx context.Context, users repository.UserRepository, email string, selfID uint) error {
	existing, err := users.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if existing.ID != selfID {
		return apperrors.ErrEmailTaken
	}
	return nil
}
