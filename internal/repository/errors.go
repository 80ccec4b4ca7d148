package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "financetracker/internal/errors"
	"financetracker/internal/model"
)

// isDuplicateKey recognises unique-constraint violations. MySQL and Postgres
// errors are translated by GORM; the modernc SQLite driver's are not.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateUserWriteError maps constraint failures on users to domain errors.
// SQLite names the violated column; GORM's translated MySQL and Postgres
// errors do not, so those are resolved by looking up the conflicting row.
func translateUserWriteError(tx *gorm.DB, user *model.User, err error) error {
	if err == nil || !isDuplicateKey(err) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "email"):
		return apperrors.ErrEmailTaken
	case strings.Contains(msg, "username"):
		return apperrors.ErrUsernameTaken
	}

	var count int64
	if tx.Model(&model.User{}).Where("username = ? AND id <> ?", user.Username, user.ID).Count(&count).Error == nil && count > 0 {
		return apperrors.ErrUsernameTaken
	}
	if tx.Model(&model.User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&count).Error == nil && count > 0 {
		return apperrors.ErrEmailTaken
	}
	return fmt.Errorf("%w: user already exists", apperrors.ErrConflict)
}

func notFound(err error, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
