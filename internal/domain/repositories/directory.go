package repositories

import (
	"context"
	"time"

	"docvault/internal/domain/models"
)

// StatusCond is an optional status predicate for set-based mutations. The
// zero value matches every row. At most one field may be set.
type StatusCond struct {
	Equals    *models.Status
	NotEquals *models.Status
}

// CondStatusEquals matches rows currently in status s.
func CondStatusEquals(s models.Status) StatusCond { return StatusCond{Equals: &s} }

// CondStatusNot matches rows currently not in status s.
func CondStatusNot(s models.Status) StatusCond { return StatusCond{NotEquals: &s} }

// DirectoryRepository persists the directory forest.
type DirectoryRepository interface {
	Create(ctx context.Context, d *models.Directory) error
	GetByID(ctx context.Context, id int64) (*models.Directory, error)

	// ListByParent lists nodes under parentID (nil = roots) with the given
	// node kind and status, filtered by the caller's resolved scope.
	ListByParent(ctx context.Context, parentID *int64, isDirectory bool, status models.Status, scope models.Scope) ([]models.Directory, error)

	// ListByStatus lists every node in the given status within scope,
	// regardless of position in the tree (archived/trash views).
	ListByStatus(ctx context.Context, status models.Status, scope models.Scope) ([]models.Directory, error)

	// ListByIDs loads the targeted nodes; missing IDs are simply absent from
	// the result. Order is unspecified.
	ListByIDs(ctx context.Context, ids []int64) ([]models.Directory, error)

	// ListChildIDs returns the IDs of all immediate children of any of the
	// given parents. One call per tree depth level lets the cascade engine
	// collect a whole subtree without a per-node round trip.
	ListChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error)

	// Save persists name, status and lifecycle timestamps of an existing node.
	Save(ctx context.Context, d *models.Directory) error

	// UpdateStatusByIDs applies one set-based status+timestamp mutation to all
	// rows matching ids and cond. TimestampNone clears both lifecycle
	// timestamps (the restore case). Returns the number of rows changed.
	UpdateStatusByIDs(ctx context.Context, ids []int64, cond StatusCond, status models.Status, field models.TimestampField, at time.Time) (int64, error)

	// Delete removes one node; descendant rows and contained documents go
	// with it via the storage layer's referential-integrity cascade.
	Delete(ctx context.Context, id int64) error

	// DeleteByIDs removes the directly targeted nodes, again relying on the
	// storage cascade for descendants. Returns the count of targeted rows
	// actually deleted (descendants are not included).
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}
