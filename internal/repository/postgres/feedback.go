package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
)

// PostgresFeedbackRepository implements FeedbackRepository using PostgreSQL.
type PostgresFeedbackRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFeedbackRepository creates a new PostgresFeedbackRepository.
func NewFeedbackRepository(config *RepositoryConfig) repositories.FeedbackRepository {
	return &PostgresFeedbackRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a feedback row. The (user_id, chat_id) unique constraint
// turns repeated feedback into a DUPLICATE_FEEDBACK conflict.
func (r *PostgresFeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, chat_id, is_positive, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Feedbacks)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		feedback.ID,
		feedback.UserID,
		feedback.ChatID,
		feedback.IsPositive,
		feedback.Status,
		feedback.CreatedAt,
		feedback.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return domain.NewError(domain.ErrConflict, domain.CodeDuplicateFeedback,
				"feedback already exists for chat %s", feedback.ChatID)
		}
		return fmt.Errorf("create feedback: %w", err)
	}

	return nil
}

// GetByID retrieves feedback by ID.
func (r *PostgresFeedbackRepository) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, chat_id, is_positive, status, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Feedbacks)

	executor := GetExecutor(ctx, r.pool)

	var feedback models.Feedback
	err := executor.QueryRow(ctx, query, id).Scan(
		&feedback.ID,
		&feedback.UserID,
		&feedback.ChatID,
		&feedback.IsPositive,
		&feedback.Status,
		&feedback.CreatedAt,
		&feedback.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewError(domain.ErrNotFound, domain.CodeFeedbackNotFound,
				"feedback %s: not found", id)
		}
		return nil, fmt.Errorf("get feedback: %w", err)
	}

	return &feedback, nil
}

// ListByUser returns a user's feedback entries, newest-first.
func (r *PostgresFeedbackRepository) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, chat_id, is_positive, status, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Feedbacks)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var feedbacks []models.Feedback
	for rows.Next() {
		var feedback models.Feedback
		err := rows.Scan(
			&feedback.ID,
			&feedback.UserID,
			&feedback.ChatID,
			&feedback.IsPositive,
			&feedback.Status,
			&feedback.CreatedAt,
			&feedback.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		feedbacks = append(feedbacks, feedback)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}

	if feedbacks == nil {
		feedbacks = []models.Feedback{}
	}

	return feedbacks, nil
}

// UpdateStatus sets the review status and returns the updated row.
func (r *PostgresFeedbackRepository) UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus) (*models.Feedback, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, chat_id, is_positive, status, created_at, updated_at
	`, r.tables.Feedbacks)

	executor := GetExecutor(ctx, r.pool)

	var feedback models.Feedback
	err := executor.QueryRow(ctx, query, status, id).Scan(
		&feedback.ID,
		&feedback.UserID,
		&feedback.ChatID,
		&feedback.IsPositive,
		&feedback.Status,
		&feedback.CreatedAt,
		&feedback.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewError(domain.ErrNotFound, domain.CodeFeedbackNotFound,
				"feedback %s: not found", id)
		}
		return nil, fmt.Errorf("update feedback status: %w", err)
	}

	return &feedback, nil
}
