package postgres

import (
	"fmt"

	"docvault/internal/domain/models"
)

// appendScopeFilter appends the org/dept membership predicates for a resolved
// scope to a WHERE clause under construction. The three cases must stay
// distinct: All adds no predicate, Some adds a membership check, and None
// adds a predicate that matches nothing - an empty scope must never fall
// through to an unconstrained query.
func appendScopeFilter(conds []string, args []interface{}, scope models.Scope, orgCol, deptCol string) ([]string, []interface{}) {
	if scope.Orgs.IsNone() || scope.Depts.IsNone() {
		conds = append(conds, "FALSE")
		return conds, args
	}
	if !scope.Orgs.IsAll() {
		args = append(args, scope.Orgs.IDs())
		conds = append(conds, fmt.Sprintf("%s = ANY($%d)", orgCol, len(args)))
	}
	if !scope.Depts.IsAll() {
		args = append(args, scope.Depts.IDs())
		conds = append(conds, fmt.Sprintf("%s = ANY($%d)", deptCol, len(args)))
	}
	return conds, args
}
