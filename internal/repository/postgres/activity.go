package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresActivityRepository implements ActivityRepository.
type PostgresActivityRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(config *RepositoryConfig) repositories.ActivityRepository {
	return &PostgresActivityRepository{pool: config.Pool, tables: config.Tables}
}

func (r *PostgresActivityRepository) Insert(ctx context.Context, entry *models.ActivityEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (timestamp, method, path, status_code, duration_ms, client_ip, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.ActivityLogs)

	_, err := r.pool.Exec(ctx, query,
		entry.Timestamp,
		entry.Method,
		entry.Path,
		entry.StatusCode,
		entry.DurationMS,
		entry.ClientIP,
		entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}
	return nil
}
