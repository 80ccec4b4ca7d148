package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"financetracker/internal/auth"
	apperrors "financetracker/internal/errors"
	"financetracker/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123", FirstName: "Alice"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, apperrors.ErrUserNotFound)
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, apperrors.ErrUserNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "username already exists",
			input: RegisterInput{Username: "alice", Email: "new@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 3, Username: "alice"}, nil)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
		{
			name:  "email already exists",
			input: RegisterInput{Username: "carol", Email: "alice@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "carol").Return(nil, apperrors.ErrUserNotFound)
				m.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{ID: 3}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:  "lookup failure is not a conflict",
			input: RegisterInput{Username: "dave", Email: "dave@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "dave").Return(nil, errors.New("connection reset"))
			},
			expectedError: errors.New("check username: connection reset"),
		},
		{
			name:          "blank username",
			input:         RegisterInput{Username: "   ", Email: "blank@example.com", Password: "password123"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.Invalid("username must be at least 3 characters"),
		},
		{
			name:          "username short after trimming",
			input:         RegisterInput{Username: " ab ", Email: "ab@example.com", Password: "password123"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.Invalid("username must be at least 3 characters"),
		},
		{
			name:          "malformed email",
			input:         RegisterInput{Username: "erin", Email: "erin", Password: "password123"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.Invalid("email must be a valid address"),
		},
		{
			name:          "short password",
			input:         RegisterInput{Username: "erin", Email: "erin@example.com", Password: "1"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.Invalid("password must be at least 6 characters"),
		},
		{
			name:  "username is stored trimmed",
			input: RegisterInput{Username: "  frank ", Email: " frank@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "frank").Return(nil, apperrors.ErrUserNotFound)
				m.On("FindByEmail", mock.Anything, "frank@example.com").Return(nil, apperrors.ErrUserNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			tokens := newTestTokens(t)
			service := NewAuthService(mockRepo, testHasher, tokens, newTestGuard(t, nil))
			user, err := service.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.expectedError.Error())
				assert.Nil(t, user)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.input.Username), user.Username)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
				assert.NoError(t, testHasher.Compare(user.PasswordHash, tt.input.Password))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := testHasher.Hash("password123")
	require.NoError(t, err)
	alice := &model.User{ID: 7, Username: "alice", Email: "alice@example.com", PasswordHash: hash}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(alice, nil)
			},
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(alice, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrUserNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			tokens := newTestTokens(t)
			service := NewAuthService(mockRepo, testHasher, tokens, newTestGuard(t, nil))
			result, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, alice, result.User)

			claims, err := tokens.Parse(result.Token.Token)
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Subject)
			assert.Equal(t, uint(7), claims.UserID)
			assert.Equal(t, result.Token.ID, claims.ID)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	identity := &auth.Identity{ID: 7, Username: "alice", TokenID: "jti-1", ExpiresAt: time.Now().Add(30 * time.Minute)}

	t.Run("revokes current token", func(t *testing.T) {
		revoked := new(MockRevocationList)
		revoked.On("Revoke", mock.Anything, "jti-1", mock.AnythingOfType("time.Duration")).Return(nil)

		service := NewAuthService(new(MockUserRepository), testHasher, newTestTokens(t), newTestGuard(t, revoked))
		require.NoError(t, service.Logout(context.Background(), identity))

		revoked.AssertExpectations(t)
		ttl := revoked.Calls[0].Arguments.Get(2).(time.Duration)
		assert.True(t, ttl > 29*time.Minute && ttl <= 30*time.Minute, "ttl %s", ttl)
	})

	t.Run("no revocation list", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), testHasher, newTestTokens(t), newTestGuard(t, nil))
		assert.NoError(t, service.Logout(context.Background(), identity))
	})

	t.Run("anonymous caller", func(t *testing.T) {
		revoked := new(MockRevocationList)
		service := NewAuthService(new(MockUserRepository), testHasher, newTestTokens(t), newTestGuard(t, revoked))
		assert.NoError(t, service.Logout(context.Background(), nil))
		revoked.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})
}
