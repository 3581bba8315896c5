package models

import (
	"strings"
	"time"
)

// Directory is a node in the per-tenant directory forest. ParentID nil means
// tree root. Level and Path are materialized at creation time from the parent
// and never recomputed: nodes do not reparent in this model.
type Directory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	IsDirectory bool   `json:"is_directory"`
	ParentID    *int64 `json:"parent_id"`
	Level       int    `json:"level"`
	Path        string `json:"path"`
	Lifecycle
	OrganizationID int64     `json:"organization_id"`
	DepartmentID   int64     `json:"department_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChildLevel returns the level a child created under this directory gets.
func (d *Directory) ChildLevel() int { return d.Level + 1 }

// ChildPath returns the materialized path a child named name gets.
func (d *Directory) ChildPath(name string) string {
	return strings.TrimRight(d.Path, "/") + "/" + name
}

// RootPath is the materialized path of a root directory.
const RootPath = "/"
