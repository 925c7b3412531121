package services

import (
	"testing"
	"time"

	"chat-hub/auth"
	"chat-hub/errors"
	"chat-hub/mocks"
	"chat-hub/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:  "alice42",
		Email:     "test@example.com",
		FirstName: "Alice",
		LastName:  "Martin",
		Password:  "ComplexPass123!",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, 24*time.Hour)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		input := validRegisterInput()

		// Expect CreateUser to receive a hashed password, never the plain one
		mockRepo.EXPECT().
			CreateUser(gomock.Any()).
			DoAndReturn(func(user repositories.NewUser) (repositories.User, error) {
				req.Equal(input.Username, user.Username)
				req.NotEqual(input.Password, user.PasswordHash)
				req.Contains(user.PasswordHash, "$argon2id$")
				return repositories.User{ID: "user-uuid", Username: user.Username}, nil
			}).
			Times(1)

		token, err := svc.Register(input)

		req.NoError(err)
		req.NotEmpty(token)

		claims, err := auth.ValidateToken(string(token))
		req.NoError(err)
		req.Equal("user-uuid", claims.UserID)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)
		input := validRegisterInput()
		input.Password = "simple"

		// Repository should NEVER be called
		mockRepo.EXPECT().CreateUser(gomock.Any()).Times(0)

		token, err := svc.Register(input)

		req.Error(err)
		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(token)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			CreateUser(gomock.Any()).
			Return(repositories.User{}, errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register(validRegisterInput())

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, 24*time.Hour)

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"
		password := "Secret123456!"

		hashedPassword, _ := auth.HashPassword(password)
		storedUser := repositories.User{
			ID:           "uuid-123",
			Email:        email,
			PasswordHash: hashedPassword,
			Roles:        []string{"user"},
		}

		mockRepo.EXPECT().
			GetUserByEmail(email).
			Return(storedUser, nil).
			Times(1)

		token, err := svc.Login(email, password)

		req.NoError(err)
		req.NotEmpty(token)

		claims, err := auth.ValidateToken(string(token))
		req.NoError(err)
		req.Equal(storedUser.ID, claims.UserID)
	})

	t.Run("should return invalid credentials when password matches nothing", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"

		hashedPassword, _ := auth.HashPassword("CorrectPassword123!")
		storedUser := repositories.User{
			Email:        email,
			PasswordHash: hashedPassword,
		}

		mockRepo.EXPECT().
			GetUserByEmail(email).
			Return(storedUser, nil).
			Times(1)

		_, err := svc.Login(email, "WrongPassword123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials when user is not found", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByEmail("unknown@example.com").
			Return(repositories.User{}, errors.ErrUserNotFound).
			Times(1)

		_, err := svc.Login("unknown@example.com", "anyPassword")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}
