package service

import (
	"context"
	"fmt"

	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type scopeResolver struct {
	orgRepo  repositories.OrganizationRepository
	deptRepo repositories.DepartmentRepository
}

// NewScopeResolver creates a new scope resolver.
func NewScopeResolver(
	orgRepo repositories.OrganizationRepository,
	deptRepo repositories.DepartmentRepository,
) services.ScopeResolver {
	return &scopeResolver{orgRepo: orgRepo, deptRepo: deptRepo}
}

// AccessibleOrganizations returns the org half of the principal's scope:
// super_admin sees all, everyone else sees exactly the own organization, and
// a principal without one sees nothing.
func (s *scopeResolver) AccessibleOrganizations(ctx context.Context, p models.Principal) (models.ScopeSet, error) {
	if p.Role == models.RoleSuperAdmin {
		return models.ScopeAll(), nil
	}
	if p.OrganizationID == nil {
		return models.ScopeNone(), nil
	}
	return models.ScopeOf(*p.OrganizationID), nil
}

// AccessibleDepartments returns the department half. org_admin and admin
// cover every department of the own organization; a plain user only the own
// department.
func (s *scopeResolver) AccessibleDepartments(ctx context.Context, p models.Principal) (models.ScopeSet, error) {
	if p.Role == models.RoleSuperAdmin {
		return models.ScopeAll(), nil
	}
	if p.OrganizationID == nil {
		return models.ScopeNone(), nil
	}

	switch p.Role {
	case models.RoleOrgAdmin, models.RoleAdmin:
		ids, err := s.deptRepo.ListIDsByOrg(ctx, *p.OrganizationID)
		if err != nil {
			return models.ScopeNone(), fmt.Errorf("resolve departments: %w", err)
		}
		return models.ScopeOf(ids...), nil
	default:
		if p.DepartmentID == nil {
			return models.ScopeNone(), nil
		}
		return models.ScopeOf(*p.DepartmentID), nil
	}
}

func (s *scopeResolver) Resolve(ctx context.Context, p models.Principal) (models.Scope, error) {
	orgs, err := s.AccessibleOrganizations(ctx, p)
	if err != nil {
		return models.Scope{}, err
	}
	depts, err := s.AccessibleDepartments(ctx, p)
	if err != nil {
		return models.Scope{}, err
	}
	return models.Scope{Orgs: orgs, Depts: depts}, nil
}
