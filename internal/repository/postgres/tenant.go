package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresOrganizationRepository implements OrganizationRepository.
type PostgresOrganizationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewOrganizationRepository creates a new organization repository.
func NewOrganizationRepository(config *RepositoryConfig) repositories.OrganizationRepository {
	return &PostgresOrganizationRepository{pool: config.Pool, tables: config.Tables}
}

func (r *PostgresOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, code, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.Organizations)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		org.Name, org.Code, org.Status, org.CreatedAt,
	).Scan(&org.ID, &org.CreatedAt)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("organization '%s': %w", org.Code, domain.ErrConflict)
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (r *PostgresOrganizationRepository) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	query := fmt.Sprintf(`
		SELECT id, name, code, status, created_at FROM %s WHERE id = $1
	`, r.tables.Organizations)

	var org models.Organization
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Code, &org.Status, &org.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("organization %d not found", id)}
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &org, nil
}

func (r *PostgresOrganizationRepository) GetByCode(ctx context.Context, code string) (*models.Organization, error) {
	query := fmt.Sprintf(`
		SELECT id, name, code, status, created_at FROM %s WHERE code = $1
	`, r.tables.Organizations)

	var org models.Organization
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, code).Scan(
		&org.ID, &org.Name, &org.Code, &org.Status, &org.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("organization '%s' not found", code)}
		}
		return nil, fmt.Errorf("get organization by code: %w", err)
	}
	return &org, nil
}

func (r *PostgresOrganizationRepository) ListIDs(ctx context.Context) ([]int64, error) {
	query := fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, r.tables.Organizations)
	return collectIDs(ctx, r.pool, query)
}

// PostgresDepartmentRepository implements DepartmentRepository.
type PostgresDepartmentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDepartmentRepository creates a new department repository.
func NewDepartmentRepository(config *RepositoryConfig) repositories.DepartmentRepository {
	return &PostgresDepartmentRepository{pool: config.Pool, tables: config.Tables}
}

func (r *PostgresDepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, code, org_id, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, r.tables.Departments)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		dept.Name, dept.Code, dept.OrgID, dept.ParentID,
	).Scan(&dept.ID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("department '%s': %w", dept.Code, domain.ErrConflict)
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

func (r *PostgresDepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	query := fmt.Sprintf(`
		SELECT id, name, code, org_id, parent_id FROM %s WHERE id = $1
	`, r.tables.Departments)

	var dept models.Department
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&dept.ID, &dept.Name, &dept.Code, &dept.OrgID, &dept.ParentID,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("department %d not found", id)}
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &dept, nil
}

func (r *PostgresDepartmentRepository) GetByOrgAndCode(ctx context.Context, orgID int64, code string) (*models.Department, error) {
	query := fmt.Sprintf(`
		SELECT id, name, code, org_id, parent_id FROM %s WHERE org_id = $1 AND code = $2
	`, r.tables.Departments)

	var dept models.Department
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, orgID, code).Scan(
		&dept.ID, &dept.Name, &dept.Code, &dept.OrgID, &dept.ParentID,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("department '%s' not found in organization %d", code, orgID)}
		}
		return nil, fmt.Errorf("get department by code: %w", err)
	}
	return &dept, nil
}

func (r *PostgresDepartmentRepository) ListIDs(ctx context.Context) ([]int64, error) {
	query := fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, r.tables.Departments)
	return collectIDs(ctx, r.pool, query)
}

func (r *PostgresDepartmentRepository) ListIDsByOrg(ctx context.Context, orgID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE org_id = $1 ORDER BY id`, r.tables.Departments)
	return collectIDs(ctx, r.pool, query, orgID)
}

// collectIDs runs a single-column int64 query.
func collectIDs(ctx context.Context, pool *pgxpool.Pool, query string, args ...interface{}) ([]int64, error) {
	rows, err := GetExecutor(ctx, pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return ids, nil
}
