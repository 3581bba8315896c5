package services

import (
	"context"

	"docvault/internal/domain/models"
)

// BulkOperation names one of the lifecycle actions a bulk call may apply.
type BulkOperation string

const (
	BulkArchive         BulkOperation = "archive"
	BulkTrash           BulkOperation = "trash"
	BulkRestore         BulkOperation = "restore"
	BulkDeletePermanent BulkOperation = "delete_permanent"
)

// BulkCoordinator applies one lifecycle operation across a set of root IDs
// and aggregates the outcome. Items whose precondition fails are silently
// skipped; only an item-type mismatch fails the whole call, and it does so
// before any storage is touched.
type BulkCoordinator interface {
	ApplyDirectories(ctx context.Context, op BulkOperation, req *models.BulkRequest) (*models.BulkResult, error)
	ApplyDocuments(ctx context.Context, op BulkOperation, req *models.BulkRequest) (*models.BulkResult, error)
}
