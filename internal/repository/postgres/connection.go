package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"loom/internal/domain/repositories"
)

// RepositoryConfig holds the shared dependencies of repository implementations.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names.
type TableNames struct {
	Users     string
	Threads   string
	Chats     string
	Feedbacks string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:     fmt.Sprintf("%susers", prefix),
		Threads:   fmt.Sprintf("%sthreads", prefix),
		Chats:     fmt.Sprintf("%schats", prefix),
		Feedbacks: fmt.Sprintf("%sfeedbacks", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool and verifies it with a
// ping. Table names are interpolated before statements are sent, so each
// environment prefix gets its own prepared statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction bound to the context when one exists,
// falling back to the pool. Repositories call this on every query so they
// transparently participate in surrounding transactions.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
