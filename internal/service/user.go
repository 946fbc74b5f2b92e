package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"loom/internal/auth"
	"loom/internal/config"
	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
	"loom/internal/domain/services"
)

// userService implements the UserService interface
type userService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger) services.UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Signup registers a new MEMBER account.
func (s *userService) Signup(ctx context.Context, req *services.SignupRequest) (*models.User, error) {
	if err := s.validateSignupRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewError(domain.ErrConflict, domain.CodeDuplicateEmail,
			"email already exists: %s", email)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         models.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		"id", user.ID,
		"email", user.Email,
	)

	return user, nil
}

// Authenticate verifies email/password. Unknown email and wrong password
// produce the same error so callers cannot enumerate registered addresses.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalidCredentials := domain.NewError(domain.ErrUnauthorized, domain.CodeInvalidCredentials,
		"invalid email or password")

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, invalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, invalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) validateSignupRequest(req *services.SignupRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email,
			validation.Required,
			validation.Length(1, config.MaxEmailLength),
			is.Email,
		),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
	)
}
