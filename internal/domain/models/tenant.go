package models

import "time"

// Organization is the top-level tenant boundary.
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Department belongs to exactly one organization. Departments may nest, but
// nesting has no effect on access scope: an org-level admin sees every
// department in the organization regardless of depth.
type Department struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	OrgID    int64  `json:"org_id"`
	ParentID *int64 `json:"parent_id"`
}
