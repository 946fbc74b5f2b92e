package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"loom/internal/config"
	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
	"loom/internal/domain/services"
)

// chatService implements the ChatService interface
type chatService struct {
	chatRepo   repositories.ChatRepository
	threadRepo repositories.ThreadRepository
	threadSvc  services.ThreadService
	completion services.CompletionClient
	txManager  repositories.TransactionManager
	system     string
	params     services.ModelParams
	logger     *slog.Logger
}

// NewChatService creates a new chat service. system is the fixed system
// instruction prepended to every completion request; params are the
// externally configured provider parameters.
func NewChatService(
	chatRepo repositories.ChatRepository,
	threadRepo repositories.ThreadRepository,
	threadSvc services.ThreadService,
	completion services.CompletionClient,
	txManager repositories.TransactionManager,
	system string,
	params services.ModelParams,
	logger *slog.Logger,
) services.ChatService {
	return &chatService{
		chatRepo:   chatRepo,
		threadRepo: threadRepo,
		threadSvc:  threadSvc,
		completion: completion,
		txManager:  txManager,
		system:     system,
		params:     params,
		logger:     logger,
	}
}

// CreateChat is the "ask the assistant" entry point. Thread resolution, the
// completion call and persistence all run inside one transaction; a provider
// failure therefore leaves no half-written exchange behind.
func (s *chatService) CreateChat(ctx context.Context, ident models.Identity, req *services.CreateChatRequest) (*models.Chat, error) {
	if ident.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := s.validateCreateChatRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	var (
		created   *models.Chat
		touchedAt time.Time
	)

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		thread, err := s.resolveTargetThread(ctx, ident, req.ThreadID)
		if err != nil {
			return err
		}

		history, err := s.recentContext(ctx, thread.ID)
		if err != nil {
			return err
		}

		answer, err := s.completion.Generate(ctx, s.buildMessages(history, req.Message), s.params)
		if err != nil {
			return err
		}

		chat := &models.Chat{
			ID:        uuid.NewString(),
			ThreadID:  thread.ID,
			UserID:    ident.UserID,
			Question:  req.Message,
			Answer:    answer,
			CreatedAt: time.Now(),
		}
		if err := s.chatRepo.Create(ctx, chat); err != nil {
			return err
		}

		// Keeps the thread "active": the chat's created_at is the floor, so
		// updated_at can never precede it even though the transaction clock
		// is older by the full completion round trip.
		touchedAt, err = s.threadRepo.Touch(ctx, thread.ID, chat.CreatedAt)
		if err != nil {
			return err
		}

		created = chat
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chat created",
		"id", created.ID,
		"thread_id", created.ThreadID,
		"user_id", ident.UserID,
		"thread_updated_at", touchedAt,
	)

	return created, nil
}

// resolveTargetThread picks the thread for a new chat: the explicitly named
// one (after an access check) or the caller's active thread.
func (s *chatService) resolveTargetThread(ctx context.Context, ident models.Identity, threadID string) (*models.Thread, error) {
	if threadID != "" {
		return s.threadSvc.GetThread(ctx, threadID, ident)
	}
	return s.threadSvc.ResolveActiveThread(ctx, ident.UserID)
}

// recentContext fetches the context window in chronological order.
func (s *chatService) recentContext(ctx context.Context, threadID string) ([]models.Chat, error) {
	recent, err := s.chatRepo.ListRecentByThread(ctx, threadID, config.ContextWindowSize)
	if err != nil {
		return nil, err
	}

	// Newest-first from the store; the provider wants oldest-first.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	return recent, nil
}

// buildMessages assembles the ordered provider payload: the system
// instruction, each historical exchange in turn order, then the new message.
func (s *chatService) buildMessages(history []models.Chat, message string) []services.Message {
	messages := make([]services.Message, 0, 2*len(history)+2)
	messages = append(messages, services.Message{Role: services.MessageRoleSystem, Content: s.system})

	for _, chat := range history {
		messages = append(messages,
			services.Message{Role: services.MessageRoleUser, Content: chat.Question},
			services.Message{Role: services.MessageRoleAssistant, Content: chat.Answer},
		)
	}

	messages = append(messages, services.Message{Role: services.MessageRoleUser, Content: message})
	return messages
}

// GetThreadHistory returns a thread's full history oldest-first.
func (s *chatService) GetThreadHistory(ctx context.Context, threadID string, ident models.Identity) ([]models.Chat, error) {
	if _, err := s.threadSvc.GetThread(ctx, threadID, ident); err != nil {
		return nil, err
	}
	return s.chatRepo.ListByThreadAsc(ctx, threadID)
}

// GetThreadHistoryPage returns a page of history newest-first along with the
// thread's total chat count, so clients can page without walking to the end.
func (s *chatService) GetThreadHistoryPage(ctx context.Context, threadID string, ident models.Identity, page repositories.Page) ([]models.Chat, int64, error) {
	if _, err := s.threadSvc.GetThread(ctx, threadID, ident); err != nil {
		return nil, 0, err
	}

	chats, err := s.chatRepo.ListByThreadDesc(ctx, threadID, page)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.chatRepo.CountByThread(ctx, threadID)
	if err != nil {
		return nil, 0, err
	}

	return chats, total, nil
}

// ListUserChats returns every chat owned by userID, newest-first.
func (s *chatService) ListUserChats(ctx context.Context, userID string) ([]models.Chat, error) {
	return s.chatRepo.ListByUserDesc(ctx, userID)
}

// GetChat fetches a single chat owned by the caller (or any chat for a
// moderator). A missing chat is consistently CHAT_NOT_FOUND.
func (s *chatService) GetChat(ctx context.Context, chatID string, ident models.Identity) (*models.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if chat.UserID != ident.UserID && !ident.Role.CanModerate() {
		return nil, domain.NewError(domain.ErrForbidden, domain.CodeUnauthorizedAccess,
			"cannot access this chat")
	}

	return chat, nil
}

// DeleteChat removes a chat after the same ownership check as GetChat.
func (s *chatService) DeleteChat(ctx context.Context, chatID string, ident models.Identity) error {
	if _, err := s.GetChat(ctx, chatID, ident); err != nil {
		return err
	}

	if err := s.chatRepo.Delete(ctx, chatID); err != nil {
		return err
	}

	s.logger.Info("chat deleted",
		"id", chatID,
		"user_id", ident.UserID,
	)

	return nil
}

func (s *chatService) validateCreateChatRequest(req *services.CreateChatRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Message,
			validation.Required,
			validation.Length(1, config.MaxQuestionLength),
		),
	)
}
