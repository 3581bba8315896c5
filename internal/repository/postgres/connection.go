package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain/repositories"
)

// RepositoryConfig holds the shared state repository implementations need.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds prefixed table names so dev/test/prod can share one
// database. The prefix is interpolated before the SQL reaches the server, so
// each environment gets its own statements.
type TableNames struct {
	Organizations string
	Departments   string
	Users         string
	Directories   string
	Documents     string
	ActivityLogs  string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Organizations: prefix + "organizations",
		Departments:   prefix + "departments",
		Users:         prefix + "users",
		Directories:   prefix + "directories",
		Documents:     prefix + "documents",
		ActivityLogs:  prefix + "activity_logs",
	}
}

// CreateConnectionPool creates a pgx connection pool.
//
// When the database sits behind a transaction-pooling proxy (port 6543 on
// common managed Postgres setups) prepared statements break with "prepared
// statement already exists". QueryExecModeCacheDescribe keeps the extended
// protocol but caches only statement descriptions, which such poolers accept.
// An explicit default_query_exec_mode in the connection string wins.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for pooler compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction carried in the context if present,
// otherwise the pool, so repositories automatically participate in the
// enclosing unit of work.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
