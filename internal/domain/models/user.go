package models

// Role names. "admin" is a department-level admin; org_admin administers a
// whole organization; super_admin is unscoped.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleOrgAdmin   = "org_admin"
	RoleSuperAdmin = "super_admin"
)

// User is a stored account. Organization and department assignments are
// nullable: an unassigned user resolves to an empty access scope.
type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	Role           string `json:"role"`
	OrganizationID *int64 `json:"organization_id"`
	DepartmentID   *int64 `json:"department_id"`
}

// Principal is the identity every request carries: the inputs the scope
// resolver needs and nothing else.
type Principal struct {
	UserID         int64
	Role           string
	OrganizationID *int64
	DepartmentID   *int64
}

// PrincipalOf builds the request principal from a stored user.
func PrincipalOf(u *User) Principal {
	return Principal{
		UserID:         u.ID,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		DepartmentID:   u.DepartmentID,
	}
}

// IsAdmin reports whether the role carries department-or-wider admin rights.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleOrgAdmin || p.Role == RoleSuperAdmin
}
