package services

import (
	"fmt"
	"time"

	"chat-hub/auth"
	"chat-hub/errors"
	"chat-hub/repositories"
)

type IAuthService interface {
	Login(email, password string) (Token, error)
	Register(input RegisterInput) (Token, error)
}

// RegisterInput carries the full signup form. Display names are optional,
// everything else is validated before any cryptographic work happens.
type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type AuthService struct {
	userRepository    repositories.IUserRepository
	authTokenDuration time.Duration
}

type Token string

func NewAuthService(repo repositories.IUserRepository,
	authTokenDuration time.Duration) IAuthService {
	return &AuthService{
		userRepository:    repo,
		authTokenDuration: authTokenDuration,
	}
}

func (s *AuthService) Register(input RegisterInput) (Token, error) {
	valReq := auth.RegisterRequest{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  input.Password,
	}

	// Validate business rules before any expensive cryptographic operation
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hashing happens here so the repository never sees a plain password
	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(repositories.NewUser{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		return "", err // Propagates ErrUserAlreadyExists on taken email or username
	}

	token, err := auth.GenerateToken(user.ID, []string{"user"}, s.authTokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, error) {
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Roles, s.authTokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	return Token(token), nil
}
