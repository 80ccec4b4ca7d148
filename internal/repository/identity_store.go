package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"financetracker/internal/auth"
	"financetracker/internal/model"
)

type identityStore struct {
	db *gorm.DB
}

// Ensure identityStore implements auth.IdentityStore
var _ auth.IdentityStore = (*identityStore)(nil)

// NewIdentityStore exposes users to the auth guard.
func NewIdentityStore(db *gorm.DB) auth.IdentityStore {
	return &identityStore{db: db}
}

func (s *identityStore) FindByUsername(ctx context.Context, username string) (*auth.Identity, error) {
	return s.find(ctx, "username = ?", username)
}

func (s *identityStore) FindByID(ctx context.Context, id uint) (*auth.Identity, error) {
	return s.find(ctx, "id = ?", id)
}

func (s *identityStore) find(ctx context.Context, query string, arg interface{}) (*auth.Identity, error) {
	var user model.User
	err := s.db.WithContext(ctx).Select("id", "username").Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &auth.Identity{ID: user.ID, Username: user.Username}, nil
}
