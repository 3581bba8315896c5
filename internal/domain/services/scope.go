package services

import (
	"context"

	"docvault/internal/domain/models"
)

// ScopeResolver computes the allow-list of organizations and departments a
// principal may touch. Every query in the system is parameterized by its
// output. Pure function of stored org/department rows and the principal.
type ScopeResolver interface {
	AccessibleOrganizations(ctx context.Context, p models.Principal) (models.ScopeSet, error)
	AccessibleDepartments(ctx context.Context, p models.Principal) (models.ScopeSet, error)
	// Resolve returns both halves in one call.
	Resolve(ctx context.Context, p models.Principal) (models.Scope, error)
}
