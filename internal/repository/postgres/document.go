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

// PostgresDocumentRepository implements the DocumentRepository interface.
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// documentInfoColumns deliberately excludes the binary payload; listings and
// info lookups never drag document bytes across the wire.
const documentInfoColumns = `id, name, title, mimetype, size, file_type, file_owner, expire_date, total_pages, directory_id, status, archived_at, trashed_at, organization_id, department_id, created_by, created_at`

func scanDocumentInfo(row pgx.Row, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.Name,
		&doc.Title,
		&doc.MimeType,
		&doc.Size,
		&doc.FileType,
		&doc.FileOwner,
		&doc.ExpireDate,
		&doc.TotalPages,
		&doc.DirectoryID,
		&doc.Status,
		&doc.ArchivedAt,
		&doc.TrashedAt,
		&doc.OrganizationID,
		&doc.DepartmentID,
		&doc.CreatedBy,
		&doc.CreatedAt,
	)
}

func (r *PostgresDocumentRepository) collectDocuments(rows pgx.Rows) ([]models.Document, error) {
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := scanDocumentInfo(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// Create inserts a new document.
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, title, mimetype, size, data, file_type, file_owner, expire_date, total_pages, directory_id, status, organization_id, department_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at
	`, r.tables.Documents)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		doc.Name,
		doc.Title,
		doc.MimeType,
		doc.Size,
		doc.Data,
		doc.FileType,
		doc.FileOwner,
		doc.ExpireDate,
		doc.TotalPages,
		doc.DirectoryID,
		doc.Status,
		doc.OrganizationID,
		doc.DepartmentID,
		doc.CreatedBy,
		doc.CreatedAt,
	).Scan(&doc.ID, &doc.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return &domain.ValidationError{Message: "directory, organization or department does not exist"}
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID loads a document including its binary payload.
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s, data FROM %s WHERE id = $1
	`, documentInfoColumns, r.tables.Documents)

	var doc models.Document
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Name,
		&doc.Title,
		&doc.MimeType,
		&doc.Size,
		&doc.FileType,
		&doc.FileOwner,
		&doc.ExpireDate,
		&doc.TotalPages,
		&doc.DirectoryID,
		&doc.Status,
		&doc.ArchivedAt,
		&doc.TrashedAt,
		&doc.OrganizationID,
		&doc.DepartmentID,
		&doc.CreatedBy,
		&doc.CreatedAt,
		&doc.Data,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// GetInfoByID loads a document without its payload.
func (r *PostgresDocumentRepository) GetInfoByID(ctx context.Context, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, documentInfoColumns, r.tables.Documents)

	var doc models.Document
	err := scanDocumentInfo(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &doc)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
		}
		return nil, fmt.Errorf("get document info: %w", err)
	}

	return &doc, nil
}

// ListByDirectory lists documents filed in directoryID (nil = unfiled) with
// the given status, within scope.
func (r *PostgresDocumentRepository) ListByDirectory(ctx context.Context, directoryID *int64, status models.Status, scope models.Scope, filter repositories.DocumentFilter) ([]models.Document, error) {
	args := []interface{}{status}
	conds := []string{"status = $1"}

	if directoryID == nil {
		conds = append(conds, "directory_id IS NULL")
	} else {
		args = append(args, *directoryID)
		conds = append(conds, fmt.Sprintf("directory_id = $%d", len(args)))
	}

	if filter.FileType != nil {
		args = append(args, *filter.FileType)
		conds = append(conds, fmt.Sprintf("file_type = $%d", len(args)))
	}

	conds, args = appendScopeFilter(conds, args, scope, "organization_id", "department_id")

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY name ASC
	`, documentInfoColumns, r.tables.Documents, strings.Join(conds, " AND "))

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return r.collectDocuments(rows)
}

// ListByStatus lists every document in the given status within scope.
func (r *PostgresDocumentRepository) ListByStatus(ctx context.Context, status models.Status, scope models.Scope) ([]models.Document, error) {
	args := []interface{}{status}
	conds := []string{"status = $1"}
	conds, args = appendScopeFilter(conds, args, scope, "organization_id", "department_id")

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY created_at DESC
	`, documentInfoColumns, r.tables.Documents, strings.Join(conds, " AND "))

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents by status: %w", err)
	}
	return r.collectDocuments(rows)
}

// ListByIDs loads the targeted documents without payloads.
func (r *PostgresDocumentRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = ANY($1)
	`, documentInfoColumns, r.tables.Documents)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list documents by ids: %w", err)
	}
	return r.collectDocuments(rows)
}

// ListExpired lists documents past their expiry date.
func (r *PostgresDocumentRepository) ListExpired(ctx context.Context, now time.Time, includeArchived bool, scope models.Scope) ([]models.Document, error) {
	args := []interface{}{now}
	conds := []string{"expire_date IS NOT NULL", "expire_date < $1"}

	if !includeArchived {
		args = append(args, models.StatusActive)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	conds, args = appendScopeFilter(conds, args, scope, "organization_id", "department_id")

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY expire_date ASC
	`, documentInfoColumns, r.tables.Documents, strings.Join(conds, " AND "))

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expired documents: %w", err)
	}
	return r.collectDocuments(rows)
}

// ListExpiringSoon lists ACTIVE documents expiring in (now, before].
func (r *PostgresDocumentRepository) ListExpiringSoon(ctx context.Context, now, before time.Time, scope models.Scope) ([]models.Document, error) {
	args := []interface{}{now, before, models.StatusActive}
	conds := []string{"expire_date IS NOT NULL", "expire_date > $1", "expire_date <= $2", "status = $3"}
	conds, args = appendScopeFilter(conds, args, scope, "organization_id", "department_id")

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY expire_date ASC
	`, documentInfoColumns, r.tables.Documents, strings.Join(conds, " AND "))

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expiring documents: %w", err)
	}
	return r.collectDocuments(rows)
}

// Save persists mutable metadata, status and lifecycle timestamps.
func (r *PostgresDocumentRepository) Save(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, title = $2, directory_id = $3, expire_date = $4, status = $5, archived_at = $6, trashed_at = $7
		WHERE id = $8
	`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		doc.Name,
		doc.Title,
		doc.DirectoryID,
		doc.ExpireDate,
		doc.Status,
		doc.ArchivedAt,
		doc.TrashedAt,
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", doc.ID)}
	}
	return nil
}

// UpdateTotalPages writes the extracted page count and nothing else, so the
// background worker cannot clobber metadata edited while extraction ran.
func (r *PostgresDocumentRepository) UpdateTotalPages(ctx context.Context, id int64, pages int) error {
	query := fmt.Sprintf(`UPDATE %s SET total_pages = $1 WHERE id = $2`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, pages, id)
	if err != nil {
		return fmt.Errorf("update total pages: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
	}
	return nil
}

// UpdateStatusByIDs applies one set-based status+timestamp mutation to all
// rows matching ids and cond.
func (r *PostgresDocumentRepository) UpdateStatusByIDs(ctx context.Context, ids []int64, cond repositories.StatusCond, status models.Status, field models.TimestampField, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sets, args := statusSetClause(status, field, at)
	args = append(args, ids)
	conds := []string{fmt.Sprintf("id = ANY($%d)", len(args))}
	conds, args = appendStatusCond(conds, args, cond)

	query := fmt.Sprintf(`
		UPDATE %s SET %s WHERE %s
	`, r.tables.Documents, sets, strings.Join(conds, " AND "))

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update document status: %w", err)
	}
	return result.RowsAffected(), nil
}

// UpdateStatusByDirectoryIDs mutates every document filed in any of the given
// directories; the cascade engine's second phase.
func (r *PostgresDocumentRepository) UpdateStatusByDirectoryIDs(ctx context.Context, dirIDs []int64, status models.Status, field models.TimestampField, at time.Time) (int64, error) {
	if len(dirIDs) == 0 {
		return 0, nil
	}

	sets, args := statusSetClause(status, field, at)
	args = append(args, dirIDs)

	query := fmt.Sprintf(`
		UPDATE %s SET %s WHERE directory_id = ANY($%d)
	`, r.tables.Documents, sets, len(args))

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update documents by directory: %w", err)
	}
	return result.RowsAffected(), nil
}

// ArchiveExpired archives every ACTIVE document already past expiry.
func (r *PostgresDocumentRepository) ArchiveExpired(ctx context.Context, now time.Time, orgID *int64) (int64, error) {
	args := []interface{}{now, models.StatusArchived, models.StatusActive}
	conds := []string{"expire_date IS NOT NULL", "expire_date < $1", "status = $3"}

	if orgID != nil {
		args = append(args, *orgID)
		conds = append(conds, fmt.Sprintf("organization_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE %s SET status = $2, archived_at = $1 WHERE %s
	`, r.tables.Documents, strings.Join(conds, " AND "))

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("archive expired documents: %w", err)
	}
	return result.RowsAffected(), nil
}

// CountByDirectoryIDs counts documents filed in any of the directories.
func (r *PostgresDocumentRepository) CountByDirectoryIDs(ctx context.Context, dirIDs []int64) (int64, error) {
	if len(dirIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE directory_id = ANY($1)
	`, r.tables.Documents)

	var count int64
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, dirIDs).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

// Delete removes one document.
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
	}
	return nil
}

// DeleteByIDs removes the targeted documents.
func (r *PostgresDocumentRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete documents: %w", err)
	}
	return result.RowsAffected(), nil
}
