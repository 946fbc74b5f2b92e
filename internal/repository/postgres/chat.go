package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
)

const defaultChatPageSize = 20

// PostgresChatRepository implements ChatRepository using PostgreSQL.
type PostgresChatRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewChatRepository creates a new PostgresChatRepository.
func NewChatRepository(config *RepositoryConfig) repositories.ChatRepository {
	return &PostgresChatRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new chat row.
func (r *PostgresChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, thread_id, user_id, question, answer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		chat.ID,
		chat.ThreadID,
		chat.UserID,
		chat.Question,
		chat.Answer,
		chat.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create chat: %w", err)
	}

	return nil
}

// GetByID retrieves a chat by ID.
func (r *PostgresChatRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	query := fmt.Sprintf(`
		SELECT id, thread_id, user_id, question, answer, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)

	var chat models.Chat
	err := executor.QueryRow(ctx, query, id).Scan(
		&chat.ID,
		&chat.ThreadID,
		&chat.UserID,
		&chat.Question,
		&chat.Answer,
		&chat.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewError(domain.ErrNotFound, domain.CodeChatNotFound,
				"chat %s: not found", id)
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}

	return &chat, nil
}

// ListByThreadAsc returns a thread's full history oldest-first.
func (r *PostgresChatRepository) ListByThreadAsc(ctx context.Context, threadID string) ([]models.Chat, error) {
	query := fmt.Sprintf(`
		SELECT id, thread_id, user_id, question, answer, created_at
		FROM %s
		WHERE thread_id = $1
		ORDER BY created_at ASC
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("list thread chats: %w", err)
	}
	defer rows.Close()

	return r.collectChats(rows)
}

// ListByThreadDesc returns a page of thread history newest-first.
func (r *PostgresChatRepository) ListByThreadDesc(ctx context.Context, threadID string, page repositories.Page) ([]models.Chat, error) {
	query := fmt.Sprintf(`
		SELECT id, thread_id, user_id, question, answer, created_at
		FROM %s
		WHERE thread_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, r.tables.Chats)

	limit, offset := normalizePage(page, defaultChatPageSize)
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, threadID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list thread chats page: %w", err)
	}
	defer rows.Close()

	return r.collectChats(rows)
}

// ListRecentByThread returns up to limit most recent chats, newest-first.
// Callers reverse the slice when they need chronological order.
func (r *PostgresChatRepository) ListRecentByThread(ctx context.Context, threadID string, limit int) ([]models.Chat, error) {
	query := fmt.Sprintf(`
		SELECT id, thread_id, user_id, question, answer, created_at
		FROM %s
		WHERE thread_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, threadID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent chats: %w", err)
	}
	defer rows.Close()

	return r.collectChats(rows)
}

// ListByUserDesc returns every chat owned by userID, newest-first.
func (r *PostgresChatRepository) ListByUserDesc(ctx context.Context, userID string) ([]models.Chat, error) {
	query := fmt.Sprintf(`
		SELECT id, thread_id, user_id, question, answer, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user chats: %w", err)
	}
	defer rows.Close()

	return r.collectChats(rows)
}

// CountByThread returns the number of chats in a thread.
func (r *PostgresChatRepository) CountByThread(ctx context.Context, threadID string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE thread_id = $1`, r.tables.Chats)

	var count int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, threadID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count chats: %w", err)
	}

	return count, nil
}

// Delete removes a chat row.
func (r *PostgresChatRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, domain.CodeChatNotFound,
			"chat %s: not found", id)
	}

	return nil
}

func (r *PostgresChatRepository) collectChats(rows pgx.Rows) ([]models.Chat, error) {
	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		err := rows.Scan(
			&chat.ID,
			&chat.ThreadID,
			&chat.UserID,
			&chat.Question,
			&chat.Answer,
			&chat.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	if chats == nil {
		chats = []models.Chat{}
	}

	return chats, nil
}
