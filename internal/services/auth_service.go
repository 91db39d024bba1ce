package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vastsea/vastsea-api/internal/constants"
	"github.com/vastsea/vastsea-api/internal/models"
	"github.com/vastsea/vastsea-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrNameRequired         = errors.New("name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles account related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// SignupInput represents the required information to create a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup registers a new user with a bcrypt-hashed password.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		// The unique index backstops the race between the pre-check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput holds the optional profile fields to change.
// A password change requires the verified current password.
type UpdateProfileInput struct {
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile applies the supplied profile changes to the user.
func (s *AuthService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}

	if email := strings.TrimSpace(input.Email); email != "" && email != user.Email {
		if _, err := s.userRepo.FindByEmail(email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = email
	}

	if input.CurrentPassword != "" && input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
			return nil, ErrWrongPassword
		}
		if len(input.NewPassword) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
