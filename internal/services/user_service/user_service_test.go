package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"photostream/internal/domain/models"
	"photostream/internal/storage"
	"photostream/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UserByID(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UsersByIDs(ctx context.Context, userIDs []string) (map[string]models.User, error) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).(map[string]models.User), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockTokenIssuer) RevokeToken(ctx context.Context, userID, refreshToken string) error {
	args := m.Called(ctx, userID, refreshToken)
	return args.Error(0)
}

type MockSession struct {
	mock.Mock
}

func (m *MockSession) SetAuthenticated(ctx context.Context, userID, email string) {
	m.Called(ctx, userID, email)
}

func (m *MockSession) Clear() {
	m.Called()
}

func TestUserService_RegisterNewUser(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	input := dto.UserRegisterInput{
		Email:    "alice@example.com",
		Password: "password123",
		Username: "alice",
	}

	t.Run("successful registration", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenIssuer)
		mockSession := new(MockSession)
		service := NewUserService(log, mockRepo, mockTokens, mockSession)

		mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u models.User) bool {
			if u.Email != input.Email || u.Username != input.Username {
				return false
			}
			if u.DisplayName != input.Username {
				return false
			}
			return bcrypt.CompareHashAndPassword(u.PassHash, []byte(input.Password)) == nil
		})).Return("user-1", nil)
		mockSession.On("SetAuthenticated", ctx, "user-1", input.Email).Return()

		id, err := service.RegisterNewUser(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "user-1", id)
		mockRepo.AssertExpectations(t)
		mockSession.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenIssuer)
		mockSession := new(MockSession)
		service := NewUserService(log, mockRepo, mockTokens, mockSession)

		mockRepo.On("SaveUser", ctx, mock.Anything).Return("", storage.ErrUserExists)

		_, err := service.RegisterNewUser(ctx, input)

		assert.ErrorIs(t, err, ErrUserExist)
		mockSession.AssertNotCalled(t, "SetAuthenticated", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	testEmail := "test@example.com"
	testPassword := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	testUser := models.User{
		ID:       "user-1",
		Email:    testEmail,
		PassHash: hashedPassword,
	}

	t.Run("successful login", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenIssuer)
		mockSession := new(MockSession)
		service := NewUserService(log, mockRepo, mockTokens, mockSession)

		expectedPair := &models.TokenPair{
			UserID:       testUser.ID,
			AccessToken:  "access",
			RefreshToken: "refresh",
		}

		mockRepo.On("UserByEmail", ctx, testEmail).Return(testUser, nil)
		mockTokens.On("GenerateTokens", ctx, testUser).Return(expectedPair, nil)
		mockSession.On("SetAuthenticated", ctx, testUser.ID, testEmail).Return()

		pair, err := service.Login(ctx, testEmail, testPassword)

		require.NoError(t, err)
		assert.Equal(t, expectedPair, pair)
		mockRepo.AssertExpectations(t)
		mockTokens.AssertExpectations(t)
		mockSession.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenIssuer)
		mockSession := new(MockSession)
		service := NewUserService(log, mockRepo, mockTokens, mockSession)

		mockRepo.On("UserByEmail", ctx, testEmail).Return(models.User{}, storage.ErrUserNotFound)

		_, err := service.Login(ctx, testEmail, testPassword)

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenIssuer)
		mockSession := new(MockSession)
		service := NewUserService(log, mockRepo, mockTokens, mockSession)

		mockRepo.On("UserByEmail", ctx, testEmail).Return(testUser, nil)

		_, err := service.Login(ctx, testEmail, "not-the-password")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockTokens.AssertNotCalled(t, "GenerateTokens", mock.Anything, mock.Anything)
		mockSession.AssertNotCalled(t, "SetAuthenticated", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_Logout(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	t.Run("revokes token and clears session", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenIssuer)
		mockSession := new(MockSession)
		service := NewUserService(log, mockRepo, mockTokens, mockSession)

		mockTokens.On("RevokeToken", ctx, "user-1", "refresh").Return(nil)
		mockSession.On("Clear").Return()

		err := service.Logout(ctx, "user-1", "refresh")

		require.NoError(t, err)
		mockTokens.AssertExpectations(t)
		mockSession.AssertExpectations(t)
	})

	t.Run("revoke failure keeps session", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenIssuer)
		mockSession := new(MockSession)
		service := NewUserService(log, mockRepo, mockTokens, mockSession)

		expectedErr := errors.New("redis down")
		mockTokens.On("RevokeToken", ctx, "user-1", "refresh").Return(expectedErr)

		err := service.Logout(ctx, "user-1", "refresh")

		assert.ErrorIs(t, err, expectedErr)
		mockSession.AssertNotCalled(t, "Clear")
	})
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	t.Run("found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo, new(MockTokenIssuer), new(MockSession))

		want := models.User{ID: "user-1", Username: "alice", DisplayName: "Alice"}
		mockRepo.On("UserByID", ctx, "user-1").Return(want, nil)

		got, err := service.Profile(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo, new(MockTokenIssuer), new(MockSession))

		mockRepo.On("UserByID", ctx, "nope").Return(models.User{}, storage.ErrUserNotFound)

		_, err := service.Profile(ctx, "nope")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
