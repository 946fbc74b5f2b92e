package services

import (
	"context"

	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
)

// CreateChatRequest carries a user message to the orchestrator. ThreadID is
// optional; when empty the active thread is resolved or created.
type CreateChatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
}

// ChatService orchestrates question/answer exchanges against the
// completion provider and exposes history reads.
type ChatService interface {
	// CreateChat resolves the target thread, assembles the recent
	// conversation context, generates an answer, persists the exchange and
	// bumps the thread's activity timestamp - all inside one transaction.
	CreateChat(ctx context.Context, ident models.Identity, req *CreateChatRequest) (*models.Chat, error)

	// GetThreadHistory returns a thread's full history oldest-first.
	GetThreadHistory(ctx context.Context, threadID string, ident models.Identity) ([]models.Chat, error)

	// GetThreadHistoryPage returns a page of history newest-first along
	// with the thread's total chat count.
	GetThreadHistoryPage(ctx context.Context, threadID string, ident models.Identity, page repositories.Page) ([]models.Chat, int64, error)

	// ListUserChats returns every chat owned by userID, newest-first.
	ListUserChats(ctx context.Context, userID string) ([]models.Chat, error)

	GetChat(ctx context.Context, chatID string, ident models.Identity) (*models.Chat, error)
	DeleteChat(ctx context.Context, chatID string, ident models.Identity) error
}
