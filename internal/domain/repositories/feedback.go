package repositories

import (
	"context"

	"loom/internal/domain/models"
)

// FeedbackRepository persists chat feedback. At most one row per
// (user, chat) pair, enforced by a unique constraint.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByID(ctx context.Context, id string) (*models.Feedback, error)
	ListByUser(ctx context.Context, userID string) ([]models.Feedback, error)
	UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus) (*models.Feedback, error)
}
