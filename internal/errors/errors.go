package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every domain error wraps exactly one of these.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
)

var (
	// ErrMissingToken is returned when no bearer credential is present.
	ErrMissingToken = fmt.Errorf("%w: missing bearer token", ErrUnauthenticated)
	// ErrInvalidToken is returned when a token is malformed, badly signed, expired or revoked.
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthenticated)

	// ErrNotOwner is returned when the caller does not own the resource.
	ErrNotOwner = fmt.Errorf("%w: resource belongs to another user", ErrForbidden)

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	// ErrTransactionNotFound is returned when a transaction is not found.
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)

	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = fmt.Errorf("%w: username already exists", ErrConflict)
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = fmt.Errorf("%w: email already exists", ErrConflict)
	// ErrCategoryInUse is returned when deleting a category that transactions still reference.
	ErrCategoryInUse = fmt.Errorf("%w: category is referenced by transactions", ErrConflict)

	// ErrUnknownCategory is returned when a transaction references a missing category.
	ErrUnknownCategory = fmt.Errorf("%w: category does not exist", ErrInvalidInput)
	// ErrInvalidAmount is returned when amount is invalid.
	ErrInvalidAmount = fmt.Errorf("%w: amount must be a non-zero decimal", ErrInvalidInput)
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// Invalid wraps a validation message as an ErrInvalidInput.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

var specific = []struct {
	err  error
	code string
}{
	{ErrMissingToken, "MISSING_TOKEN"},
	{ErrInvalidToken, "INVALID_TOKEN"},
	{ErrInvalidCredentials, "INVALID_CREDENTIALS"},
	{ErrNotOwner, "NOT_OWNER"},
	{ErrUserNotFound, "USER_NOT_FOUND"},
	{ErrCategoryNotFound, "CATEGORY_NOT_FOUND"},
	{ErrTransactionNotFound, "TRANSACTION_NOT_FOUND"},
	{ErrUsernameTaken, "USERNAME_TAKEN"},
	{ErrEmailTaken, "EMAIL_TAKEN"},
	{ErrCategoryInUse, "CATEGORY_IN_USE"},
	{ErrUnknownCategory, "UNKNOWN_CATEGORY"},
	{ErrInvalidAmount, "INVALID_AMOUNT"},
}

var kinds = []struct {
	err    error
	status int
	code   string
}{
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrConflict, http.StatusConflict, "CONFLICT"},
	{ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 so internal details never reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	for _, k := range kinds {
		if !errors.Is(err, k.err) {
			continue
		}
		code := k.code
		for _, s := range specific {
			if errors.Is(err, s.err) {
				code = s.code
				break
			}
		}
		return NewHTTPError(k.status, err.Error(), code)
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
