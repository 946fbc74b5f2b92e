package services

import (
	"context"

	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
)

// ThreadService owns the conversation-thread lifecycle.
type ThreadService interface {
	// ResolveActiveThread returns the caller's most recently updated thread
	// if it was touched within the inactivity window, creating a fresh one
	// otherwise. Resolution is serialized per user so concurrent requests
	// cannot both create a thread.
	ResolveActiveThread(ctx context.Context, userID string) (*models.Thread, error)

	// GetThread fetches a thread the caller may access: its owner, or any
	// caller whose role can moderate.
	GetThread(ctx context.Context, threadID string, ident models.Identity) (*models.Thread, error)

	// ListThreads returns the caller's threads newest-activity-first.
	// Moderators see every user's threads.
	ListThreads(ctx context.Context, ident models.Identity, page repositories.Page) ([]models.Thread, error)

	DeleteThread(ctx context.Context, threadID string, ident models.Identity) error
}
