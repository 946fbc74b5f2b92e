package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
)

const defaultThreadPageSize = 20

// PostgresThreadRepository implements ThreadRepository using PostgreSQL.
type PostgresThreadRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewThreadRepository creates a new PostgresThreadRepository.
func NewThreadRepository(config *RepositoryConfig) repositories.ThreadRepository {
	return &PostgresThreadRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new thread row.
func (r *PostgresThreadRepository) Create(ctx context.Context, thread *models.Thread) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, r.tables.Threads)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		thread.ID,
		thread.UserID,
		thread.CreatedAt,
		thread.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create thread: %w", err)
	}

	return nil
}

// GetByID retrieves a thread regardless of owner.
func (r *PostgresThreadRepository) GetByID(ctx context.Context, id string) (*models.Thread, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Threads)

	executor := GetExecutor(ctx, r.pool)
	return r.scanThread(executor.QueryRow(ctx, query, id), id)
}

// GetByIDAndUser retrieves a thread only when owned by userID.
func (r *PostgresThreadRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Thread, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Threads)

	executor := GetExecutor(ctx, r.pool)
	return r.scanThread(executor.QueryRow(ctx, query, id, userID), id)
}

// FindActiveByUser returns the most recently updated thread for userID with
// updated_at at or after cutoff.
func (r *PostgresThreadRepository) FindActiveByUser(ctx context.Context, userID string, cutoff time.Time) (*models.Thread, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, created_at, updated_at
		FROM %s
		WHERE user_id = $1 AND updated_at >= $2
		ORDER BY updated_at DESC
		LIMIT 1
	`, r.tables.Threads)

	executor := GetExecutor(ctx, r.pool)
	return r.scanThread(executor.QueryRow(ctx, query, userID, cutoff), userID)
}

// ListByUser returns a page of the user's threads, newest activity first.
func (r *PostgresThreadRepository) ListByUser(ctx context.Context, userID string, page repositories.Page) ([]models.Thread, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`, r.tables.Threads)

	limit, offset := normalizePage(page, defaultThreadPageSize)
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	return r.collectThreads(rows)
}

// ListAll returns a page of every user's threads, newest activity first.
func (r *PostgresThreadRepository) ListAll(ctx context.Context, page repositories.Page) ([]models.Thread, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, created_at, updated_at
		FROM %s
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`, r.tables.Threads)

	limit, offset := normalizePage(page, defaultThreadPageSize)
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list all threads: %w", err)
	}
	defer rows.Close()

	return r.collectThreads(rows)
}

// Touch advances updated_at to at least the given instant and returns the
// stored value. NOW() is pinned to transaction start in Postgres, so inside a
// long transaction it can land before rows stamped from the application
// clock; GREATEST with the caller's timestamp keeps the two in order.
func (r *PostgresThreadRepository) Touch(ctx context.Context, id string, at time.Time) (time.Time, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET updated_at = GREATEST(updated_at, $2)
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.Threads)

	var updatedAt time.Time
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, at).Scan(&updatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return time.Time{}, domain.NewError(domain.ErrNotFound, domain.CodeThreadNotFound,
				"thread %s: not found", id)
		}
		return time.Time{}, fmt.Errorf("touch thread: %w", err)
	}

	return updatedAt, nil
}

// Delete removes a thread and, via FK cascade, its chats.
func (r *PostgresThreadRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Threads)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, domain.CodeThreadNotFound,
			"thread %s: not found", id)
	}

	return nil
}

// LockUser takes a per-user advisory lock scoped to the current transaction,
// closing the find-then-create race in active-thread resolution.
func (r *PostgresThreadRepository) LockUser(ctx context.Context, userID string) error {
	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return fmt.Errorf("lock user %s: %w", userID, err)
	}
	return nil
}

func (r *PostgresThreadRepository) scanThread(row pgx.Row, key string) (*models.Thread, error) {
	var thread models.Thread
	err := row.Scan(
		&thread.ID,
		&thread.UserID,
		&thread.CreatedAt,
		&thread.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewError(domain.ErrNotFound, domain.CodeThreadNotFound,
				"thread %s: not found", key)
		}
		return nil, fmt.Errorf("get thread: %w", err)
	}

	return &thread, nil
}

func (r *PostgresThreadRepository) collectThreads(rows pgx.Rows) ([]models.Thread, error) {
	var threads []models.Thread
	for rows.Next() {
		var thread models.Thread
		err := rows.Scan(
			&thread.ID,
			&thread.UserID,
			&thread.CreatedAt,
			&thread.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		threads = append(threads, thread)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate threads: %w", err)
	}

	if threads == nil {
		threads = []models.Thread{}
	}

	return threads, nil
}

func normalizePage(page repositories.Page, defaultLimit int) (limit, offset int) {
	limit = page.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	offset = page.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
