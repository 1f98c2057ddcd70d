package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/classmark/gradebook/internal/gradebook"
	"github.com/classmark/gradebook/internal/model"
	"github.com/rs/zerolog"
)

// ErrUsernameTaken is returned when registering an existing username.
var ErrUsernameTaken = fmt.Errorf("username already taken: %w", gradebook.ErrExists)

// UserService handles registration, login and profiles.
type UserService struct {
	users   UserStore
	classes ClassStore
	auth    *AuthService
	log     zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, classes ClassStore, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		users:   users,
		classes: classes,
		auth:    auth,
		log:     log.With().Str("component", "user_service").Logger(),
	}
}

// Register creates a new account with a hashed password.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		IsTeacher:    req.IsTeacher != nil && *req.IsTeacher,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gradebook.ErrExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.log.Info().
		Str("username", user.Username).
		Bool("teacher", user.IsTeacher).
		Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues a token.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gradebook.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Refresh issues a new token for the caller and revokes the one presented.
func (s *UserService) Refresh(ctx context.Context, claims *Claims) (*model.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		return nil, err
	}
	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Revoke(ctx, claims); err != nil {
		s.log.Warn().Err(err).Str("username", user.Username).Msg("Failed to revoke refreshed token")
	}
	return resp, nil
}

// Profile returns the caller's account; teachers get their classes embedded.
func (s *UserService) Profile(ctx context.Context, p model.Principal) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, p.Username)
	if err != nil {
		return nil, err
	}
	if user.IsTeacher {
		classes, err := s.classes.ListByTeacher(ctx, user.Username)
		if err != nil {
			return nil, err
		}
		user.Classes = classes
	}
	return user, nil
}

func (s *UserService) issue(user *model.User) (*model.LoginResponse, error) {
	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, User: *user}, nil
}
