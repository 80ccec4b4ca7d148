package service

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "financetracker/internal/errors"
)

var validate = validator.New()

// normalizeUsername trims username and checks its length on the trimmed value.
func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	n := utf8.RuneCountInString(username)
	if n < 3 {
		return "", apperrors.Invalid("username must be at least 3 characters")
	}
	if n > 100 {
		return "", apperrors.Invalid("username must be at most 100 characters")
	}
	return username, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email,max=255"); err != nil {
		return "", apperrors.Invalid("email must be a valid address")
	}
	return email, nil
}

// checkPassword enforces the length bcrypt can hash without truncation.
func checkPassword(password string) error {
	if len(password) < 6 {
		return apperrors.Invalid("password must be at least 6 characters")
	}
	if len(password) > 72 {
		return apperrors.Invalid("password must be at most 72 bytes")
	}
	return nil
}
