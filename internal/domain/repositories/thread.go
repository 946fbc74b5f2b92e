package repositories

import (
	"context"
	"time"

	"loom/internal/domain/models"
)

// Page bounds a list query. Zero Limit means the repository default.
type Page struct {
	Limit  int
	Offset int
}

// ThreadRepository persists conversation threads.
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error

	// GetByID fetches a thread regardless of owner (admin paths).
	GetByID(ctx context.Context, id string) (*models.Thread, error)

	// GetByIDAndUser fetches a thread only if owned by userID.
	GetByIDAndUser(ctx context.Context, id, userID string) (*models.Thread, error)

	// FindActiveByUser returns the most recently updated thread owned by
	// userID with updated_at >= cutoff, or ErrNotFound.
	FindActiveByUser(ctx context.Context, userID string, cutoff time.Time) (*models.Thread, error)

	ListByUser(ctx context.Context, userID string, page Page) ([]models.Thread, error)
	ListAll(ctx context.Context, page Page) ([]models.Thread, error)

	// Touch advances updated_at to at least the given instant and returns
	// the stored value. The floor comes from the caller's clock so the
	// thread's activity timestamp never trails a chat written in the same
	// transaction.
	Touch(ctx context.Context, id string, at time.Time) (time.Time, error)

	Delete(ctx context.Context, id string) error

	// LockUser serializes active-thread resolution per user for the duration
	// of the surrounding transaction.
	LockUser(ctx context.Context, userID string) error
}
