package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
	"loom/internal/domain/services"
)

// feedbackService implements the FeedbackService interface
type feedbackService struct {
	feedbackRepo repositories.FeedbackRepository
	chatRepo     repositories.ChatRepository
	logger       *slog.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	feedbackRepo repositories.FeedbackRepository,
	chatRepo repositories.ChatRepository,
	logger *slog.Logger,
) services.FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		chatRepo:     chatRepo,
		logger:       logger,
	}
}

// Create stores feedback for a chat the caller owns.
func (s *feedbackService) Create(ctx context.Context, req *services.CreateFeedbackRequest) (*models.Feedback, error) {
	if err := s.validateCreateFeedbackRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	chat, err := s.chatRepo.GetByID(ctx, req.ChatID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != req.UserID {
		return nil, domain.NewError(domain.ErrForbidden, domain.CodeUnauthorizedAccess,
			"cannot give feedback on this chat")
	}

	now := time.Now()
	feedback := &models.Feedback{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		ChatID:     req.ChatID,
		IsPositive: req.IsPositive,
		Status:     models.FeedbackPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	s.logger.Info("feedback created",
		"id", feedback.ID,
		"chat_id", req.ChatID,
		"positive", req.IsPositive,
	)

	return feedback, nil
}

// ListByUser returns the caller's feedback entries.
func (s *feedbackService) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	return s.feedbackRepo.ListByUser(ctx, userID)
}

// UpdateStatus moves feedback through review; moderator-only.
func (s *feedbackService) UpdateStatus(ctx context.Context, feedbackID string, status models.FeedbackStatus, ident models.Identity) (*models.Feedback, error) {
	if !ident.Role.CanModerate() {
		return nil, domain.NewError(domain.ErrForbidden, domain.CodeUnauthorizedAccess,
			"cannot update feedback status")
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, status)
	}

	return s.feedbackRepo.UpdateStatus(ctx, feedbackID, status)
}

func (s *feedbackService) validateCreateFeedbackRequest(req *services.CreateFeedbackRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.ChatID, validation.Required),
	)
}
