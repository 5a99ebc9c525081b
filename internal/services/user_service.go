package services

import (
	"context"
	"fmt"
	"strings"

	"agrosite/internal/auth"
	"agrosite/internal/models"
	"agrosite/internal/repository"

	"github.com/sirupsen/logrus"
)

// UserService handles user-related business logic
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService
func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a user with a unique username and email
func (s *UserService) Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrInvalidArgument)
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already taken", ErrAlreadyExists)
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &models.User{Username: username, Email: email}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

// Login looks a user up by username and issues a session token. There is no password check.
func (s *UserService) Login(ctx context.Context, username string) (*models.User, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	logrus.WithField("user_id", user.ID).Info("user logged in")
	return user, token, nil
}

// Exists reports whether userID names a registered user
func (s *UserService) Exists(ctx context.Context, userID uint) (bool, error) {
	return s.repo.UserExists(ctx, userID)
}
