package models

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload carried by every authenticated request. Subject
// holds the user ID; the tenant assignment rides along so the scope resolver
// never needs a user lookup per request.
type Claims struct {
	jwt.RegisteredClaims
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganizationID *int64 `json:"org_id,omitempty"`
	DepartmentID   *int64 `json:"dept_id,omitempty"`
}

// Principal converts the claims to a request principal. Returns false when
// the subject is not a valid user ID.
func (c *Claims) Principal() (Principal, bool) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Principal{}, false
	}
	return Principal{
		UserID:         id,
		Role:           c.Role,
		OrganizationID: c.OrganizationID,
		DepartmentID:   c.DepartmentID,
	}, true
}
