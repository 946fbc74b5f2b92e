package repositories

import (
	"context"

	"loom/internal/domain/models"
)

// ChatRepository persists question/answer pairs.
type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	GetByID(ctx context.Context, id string) (*models.Chat, error)

	// ListByThreadAsc returns the full thread history oldest-first.
	ListByThreadAsc(ctx context.Context, threadID string) ([]models.Chat, error)

	// ListByThreadDesc returns a page of thread history newest-first.
	ListByThreadDesc(ctx context.Context, threadID string, page Page) ([]models.Chat, error)

	// ListRecentByThread returns up to limit most recent chats, newest-first.
	ListRecentByThread(ctx context.Context, threadID string, limit int) ([]models.Chat, error)

	ListByUserDesc(ctx context.Context, userID string) ([]models.Chat, error)
	CountByThread(ctx context.Context, threadID string) (int64, error)
	Delete(ctx context.Context, id string) error
}
