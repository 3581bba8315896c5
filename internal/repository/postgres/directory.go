package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresDirectoryRepository implements the DirectoryRepository interface.
type PostgresDirectoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDirectoryRepository creates a new directory repository.
func NewDirectoryRepository(config *RepositoryConfig) repositories.DirectoryRepository {
	return &PostgresDirectoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const directoryColumns = `id, name, is_directory, parent_id, level, path, status, archived_at, trashed_at, organization_id, department_id, created_at`

func scanDirectory(row pgx.Row, d *models.Directory) error {
	return row.Scan(
		&d.ID,
		&d.Name,
		&d.IsDirectory,
		&d.ParentID,
		&d.Level,
		&d.Path,
		&d.Status,
		&d.ArchivedAt,
		&d.TrashedAt,
		&d.OrganizationID,
		&d.DepartmentID,
		&d.CreatedAt,
	)
}

func (r *PostgresDirectoryRepository) collectDirectories(rows pgx.Rows) ([]models.Directory, error) {
	defer rows.Close()

	var dirs []models.Directory
	for rows.Next() {
		var d models.Directory
		if err := scanDirectory(rows, &d); err != nil {
			return nil, fmt.Errorf("scan directory: %w", err)
		}
		dirs = append(dirs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directories: %w", err)
	}
	return dirs, nil
}

// Create inserts a new node. Level and path are taken as computed by the
// service; they are immutable afterwards.
func (r *PostgresDirectoryRepository) Create(ctx context.Context, d *models.Directory) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, is_directory, parent_id, level, path, status, organization_id, department_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, r.tables.Directories)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		d.Name,
		d.IsDirectory,
		d.ParentID,
		d.Level,
		d.Path,
		d.Status,
		d.OrganizationID,
		d.DepartmentID,
		d.CreatedAt,
	).Scan(&d.ID, &d.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("directory '%s': %w", d.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create directory: %w", err)
	}

	return nil
}

// GetByID retrieves a node by ID.
func (r *PostgresDirectoryRepository) GetByID(ctx context.Context, id int64) (*models.Directory, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, directoryColumns, r.tables.Directories)

	var d models.Directory
	err := scanDirectory(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &d)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("directory %d not found", id)}
		}
		return nil, fmt.Errorf("get directory: %w", err)
	}

	return &d, nil
}

// ListByParent lists nodes under parentID (nil = roots) within scope.
func (r *PostgresDirectoryRepository) ListByParent(ctx context.Context, parentID *int64, isDirectory bool, status models.Status, scope models.Scope) ([]models.Directory, error) {
	args := []interface{}{isDirectory, status}
	conds := []string{"is_directory = $1", "status = $2"}

	if parentID == nil {
		conds = append(conds, "parent_id IS NULL")
	} else {
		args = append(args, *parentID)
		conds = append(conds, fmt.Sprintf("parent_id = $%d", len(args)))
	}

	conds, args = appendScopeFilter(conds, args, scope, "organization_id", "department_id")

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY name ASC
	`, directoryColumns, r.tables.Directories, strings.Join(conds, " AND "))

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list directories: %w", err)
	}
	return r.collectDirectories(rows)
}

// ListByStatus lists every node in the given status within scope.
func (r *PostgresDirectoryRepository) ListByStatus(ctx context.Context, status models.Status, scope models.Scope) ([]models.Directory, error) {
	args := []interface{}{status}
	conds := []string{"status = $1"}
	conds, args = appendScopeFilter(conds, args, scope, "organization_id", "department_id")

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY path ASC
	`, directoryColumns, r.tables.Directories, strings.Join(conds, " AND "))

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list directories by status: %w", err)
	}
	return r.collectDirectories(rows)
}

// ListByIDs loads the targeted nodes; missing IDs are absent from the result.
func (r *PostgresDirectoryRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Directory, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = ANY($1)
	`, directoryColumns, r.tables.Directories)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list directories by ids: %w", err)
	}
	return r.collectDirectories(rows)
}

// ListChildIDs returns the IDs of all immediate children of the given
// parents. The cascade engine calls this once per depth level.
func (r *PostgresDirectoryRepository) ListChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id FROM %s WHERE parent_id = ANY($1)
	`, r.tables.Directories)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("list child ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan child id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate child ids: %w", err)
	}
	return ids, nil
}

// Save persists name, status and lifecycle timestamps of an existing node.
func (r *PostgresDirectoryRepository) Save(ctx context.Context, d *models.Directory) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, status = $2, archived_at = $3, trashed_at = $4
		WHERE id = $5
	`, r.tables.Directories)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		d.Name,
		d.Status,
		d.ArchivedAt,
		d.TrashedAt,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("save directory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("directory %d not found", d.ID)}
	}
	return nil
}

// UpdateStatusByIDs applies one set-based status+timestamp mutation to all
// rows matching ids and cond.
func (r *PostgresDirectoryRepository) UpdateStatusByIDs(ctx context.Context, ids []int64, cond repositories.StatusCond, status models.Status, field models.TimestampField, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sets, args := statusSetClause(status, field, at)
	args = append(args, ids)
	conds := []string{fmt.Sprintf("id = ANY($%d)", len(args))}
	conds, args = appendStatusCond(conds, args, cond)

	query := fmt.Sprintf(`
		UPDATE %s SET %s WHERE %s
	`, r.tables.Directories, sets, strings.Join(conds, " AND "))

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update directory status: %w", err)
	}
	return result.RowsAffected(), nil
}

// Delete removes one node; descendants and contained documents go with it
// via ON DELETE CASCADE.
func (r *PostgresDirectoryRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Directories)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete directory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("directory %d not found", id)}
	}
	return nil
}

// DeleteByIDs removes the directly targeted nodes, relying on the storage
// cascade for everything underneath.
func (r *PostgresDirectoryRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Directories)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete directories: %w", err)
	}
	return result.RowsAffected(), nil
}

// statusSetClause builds the SET clause of a lifecycle mutation. Restore
// (TimestampNone) clears both timestamps; archive and trash stamp their own
// column and leave the other untouched.
func statusSetClause(status models.Status, field models.TimestampField, at time.Time) (string, []interface{}) {
	args := []interface{}{status}
	switch field {
	case models.TimestampArchived:
		args = append(args, at)
		return "status = $1, archived_at = $2", args
	case models.TimestampTrashed:
		args = append(args, at)
		return "status = $1, trashed_at = $2", args
	default:
		return "status = $1, archived_at = NULL, trashed_at = NULL", args
	}
}

// appendStatusCond appends the optional status predicate of a conditional
// set-based mutation.
func appendStatusCond(conds []string, args []interface{}, cond repositories.StatusCond) ([]string, []interface{}) {
	if cond.Equals != nil {
		args = append(args, *cond.Equals)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if cond.NotEquals != nil {
		args = append(args, *cond.NotEquals)
		conds = append(conds, fmt.Sprintf("status <> $%d", len(args)))
	}
	return conds, args
}
