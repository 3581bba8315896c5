package services

import (
	"context"

	"docvault/internal/domain/models"
)

// CreateDirectoryRequest creates a node in the directory tree. Organization
// and department default to the principal's own assignment when omitted.
type CreateDirectoryRequest struct {
	Name           string `json:"name"`
	ParentID       *int64 `json:"parent_id"`
	OrganizationID *int64 `json:"organization_id"`
	DepartmentID   *int64 `json:"department_id"`
}

// ListDirectoriesRequest filters the directory listing.
type ListDirectoriesRequest struct {
	ParentID    *int64
	IsDirectory bool
	Status      models.Status
}

// DirectoryService owns the directory tree: creation, scoped listing and the
// lifecycle state machine with recursive cascade to descendants and
// contained documents.
type DirectoryService interface {
	Create(ctx context.Context, p models.Principal, req *CreateDirectoryRequest) (*models.Directory, error)
	Get(ctx context.Context, p models.Principal, id int64) (*models.Directory, error)
	List(ctx context.Context, p models.Principal, req *ListDirectoriesRequest) ([]models.Directory, error)
	ListArchived(ctx context.Context, p models.Principal) ([]models.Directory, error)
	ListTrashed(ctx context.Context, p models.Principal) ([]models.Directory, error)

	// Archive requires ACTIVE and cascades ARCHIVED to the whole subtree.
	Archive(ctx context.Context, id int64) (*models.StatusUpdateResult, error)
	// Trash accepts ACTIVE or ARCHIVED and cascades TRASHED to the subtree.
	Trash(ctx context.Context, id int64) (*models.StatusUpdateResult, error)
	// Restore requires a non-ACTIVE node with an ACTIVE (or absent) parent and
	// cascades ACTIVE to the subtree unconditionally.
	Restore(ctx context.Context, id int64) (*models.StatusUpdateResult, error)
	// DeletePermanent removes the node and its entire subtree irreversibly.
	// The report counts descendant directories and contained documents.
	DeletePermanent(ctx context.Context, id int64) (*models.StatusUpdateResult, error)
}
