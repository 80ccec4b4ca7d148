package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing token", ErrMissingToken, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"bare unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"not owner", ErrNotOwner, http.StatusForbidden, "NOT_OWNER"},
		{"wrapped not found", fmt.Errorf("get transaction 7: %w", ErrTransactionNotFound), http.StatusNotFound, "TRANSACTION_NOT_FOUND"},
		{"username taken", ErrUsernameTaken, http.StatusConflict, "USERNAME_TAKEN"},
		{"category in use", ErrCategoryInUse, http.StatusConflict, "CATEGORY_IN_USE"},
		{"unknown category", ErrUnknownCategory, http.StatusBadRequest, "UNKNOWN_CATEGORY"},
		{"ad hoc invalid", Invalid("name is required"), http.StatusBadRequest, "INVALID_INPUT"},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalMessage(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.4:3306: connection refused"))
	assert.Equal(t, "internal server error", httpErr.Message)
	assert.Equal(t, ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}, httpErr.ToErrorResponse())
}

func TestKindsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrTransactionNotFound, ErrForbidden))
	assert.False(t, errors.Is(ErrNotOwner, ErrNotFound))
	assert.True(t, errors.Is(ErrInvalidCredentials, ErrUnauthenticated))
}
