package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"loom/internal/config"
	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
	"loom/internal/domain/services"
)

// threadService implements the ThreadService interface
type threadService struct {
	threadRepo repositories.ThreadRepository
	userRepo   repositories.UserRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewThreadService creates a new thread service
func NewThreadService(
	threadRepo repositories.ThreadRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ThreadService {
	return &threadService{
		threadRepo: threadRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// ResolveActiveThread returns the user's most recently updated thread if it
// was touched within the inactivity window, creating a new one otherwise.
// The whole decision runs under a per-user advisory lock inside one
// transaction, so two concurrent requests resolve to the same thread.
func (s *threadService) ResolveActiveThread(ctx context.Context, userID string) (*models.Thread, error) {
	var resolved *models.Thread

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.threadRepo.LockUser(ctx, userID); err != nil {
			return err
		}

		cutoff := time.Now().Add(-config.ThreadInactivityWindow)
		thread, err := s.threadRepo.FindActiveByUser(ctx, userID, cutoff)
		if err == nil {
			resolved = thread
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		// No active thread - verify the user exists, then create one.
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			return err
		}

		now := time.Now()
		thread = &models.Thread{
			ID:        uuid.NewString(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.threadRepo.Create(ctx, thread); err != nil {
			return err
		}

		s.logger.Info("thread created",
			"id", thread.ID,
			"user_id", userID,
		)

		resolved = thread
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resolved, nil
}

// GetThread fetches a thread the caller may access.
func (s *threadService) GetThread(ctx context.Context, threadID string, ident models.Identity) (*models.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if thread.UserID != ident.UserID && !ident.Role.CanModerate() {
		return nil, domain.NewError(domain.ErrForbidden, domain.CodeUnauthorizedAccess,
			"cannot access this thread")
	}

	return thread, nil
}

// ListThreads returns the caller's threads; moderators see every thread.
func (s *threadService) ListThreads(ctx context.Context, ident models.Identity, page repositories.Page) ([]models.Thread, error) {
	if ident.Role.CanModerate() {
		return s.threadRepo.ListAll(ctx, page)
	}
	return s.threadRepo.ListByUser(ctx, ident.UserID, page)
}

// DeleteThread removes a thread owned by the caller, or any thread for a
// moderator.
func (s *threadService) DeleteThread(ctx context.Context, threadID string, ident models.Identity) error {
	if _, err := s.GetThread(ctx, threadID, ident); err != nil {
		return err
	}

	if err := s.threadRepo.Delete(ctx, threadID); err != nil {
		return err
	}

	s.logger.Info("thread deleted",
		"id", threadID,
		"user_id", ident.UserID,
	)

	return nil
}
