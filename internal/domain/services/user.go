package services

import (
	"context"

	"loom/internal/domain/models"
)

// SignupRequest carries a new account registration.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UserService manages accounts and credential checks.
type UserService interface {
	// Signup registers a new MEMBER account. Fails with ErrConflict
	// (DUPLICATE_EMAIL) when the email is taken.
	Signup(ctx context.Context, req *SignupRequest) (*models.User, error)

	// Authenticate verifies email/password and returns the user. Unknown
	// email and wrong password both fail with the same INVALID_CREDENTIALS
	// error.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)
}
