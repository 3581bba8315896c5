package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// OrganizationRepository persists tenants.
type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id int64) (*models.Organization, error)
	GetByCode(ctx context.Context, code string) (*models.Organization, error)
	// ListIDs returns every organization ID; the super_admin scope.
	ListIDs(ctx context.Context) ([]int64, error)
}

// DepartmentRepository persists departments.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	GetByOrgAndCode(ctx context.Context, orgID int64, code string) (*models.Department, error)
	// ListIDs returns every department ID; the super_admin scope.
	ListIDs(ctx context.Context) ([]int64, error)
	// ListIDsByOrg returns the IDs of all departments in one organization;
	// the org-admin scope.
	ListIDsByOrg(ctx context.Context, orgID int64) ([]int64, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ActivityRepository records API request activity.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *models.ActivityEntry) error
}
