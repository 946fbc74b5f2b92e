package services

import (
	"context"

	"loom/internal/domain/models"
)

// CreateFeedbackRequest records sentiment for one chat.
type CreateFeedbackRequest struct {
	UserID     string `json:"-"`
	ChatID     string `json:"chat_id"`
	IsPositive bool   `json:"is_positive"`
}

// FeedbackService manages per-chat feedback.
type FeedbackService interface {
	// Create stores feedback for a chat the caller owns. A second feedback
	// for the same chat fails with ErrConflict (DUPLICATE_FEEDBACK).
	Create(ctx context.Context, req *CreateFeedbackRequest) (*models.Feedback, error)

	ListByUser(ctx context.Context, userID string) ([]models.Feedback, error)

	// UpdateStatus moves feedback through review; moderator-only.
	UpdateStatus(ctx context.Context, feedbackID string, status models.FeedbackStatus, ident models.Identity) (*models.Feedback, error)
}
