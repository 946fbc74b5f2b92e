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

// PostgresUserRepository implements UserRepository using PostgreSQL.
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new PostgresUserRepository.
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new user row.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, email, password_hash, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return domain.NewError(domain.ErrConflict, domain.CodeDuplicateEmail,
				"email already exists: %s", user.Email)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, name, role, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	return r.scanUser(executor.QueryRow(ctx, query, id), id)
}

// GetByEmail retrieves a user by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, name, role, created_at, updated_at
		FROM %s
		WHERE email = $1
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	return r.scanUser(executor.QueryRow(ctx, query, email), email)
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE email = $1)`, r.tables.Users)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func (r *PostgresUserRepository) scanUser(row interface{ Scan(dest ...any) error }, key string) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewError(domain.ErrNotFound, domain.CodeUserNotFound,
				"user %s: not found", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
