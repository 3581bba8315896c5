package services

import (
	"context"
	"time"

	"docvault/internal/domain/models"
)

// UploadDocumentRequest stores a new document. Organization and department
// are copied from the uploading principal, not from the directory.
type UploadDocumentRequest struct {
	Name        string
	Title       *string
	MimeType    string
	Data        []byte
	DirectoryID *int64
	FileOwner   *string
	ExpireDate  *time.Time
}

// ListDocumentsRequest filters the document listing.
type ListDocumentsRequest struct {
	DirectoryID *int64
	Status      models.Status
	FileType    *string
}

// DocumentService owns documents: upload, scoped listing, access checks and
// the per-document lifecycle state machine.
type DocumentService interface {
	Upload(ctx context.Context, p models.Principal, req *UploadDocumentRequest) (*models.Document, error)
	// Get loads a document with payload after an access check.
	Get(ctx context.Context, p models.Principal, id int64) (*models.Document, error)
	// GetInfo loads metadata only.
	GetInfo(ctx context.Context, p models.Principal, id int64) (*models.Document, error)
	List(ctx context.Context, p models.Principal, req *ListDocumentsRequest) ([]models.Document, error)
	ListArchived(ctx context.Context, p models.Principal) ([]models.Document, error)
	ListTrashed(ctx context.Context, p models.Principal) ([]models.Document, error)
	ListExpired(ctx context.Context, p models.Principal, includeArchived bool) ([]models.Document, error)
	ListExpiringSoon(ctx context.Context, p models.Principal, days int) ([]models.Document, error)

	Archive(ctx context.Context, id int64) (*models.StatusUpdateResult, error)
	Trash(ctx context.Context, id int64) (*models.StatusUpdateResult, error)
	// Restore additionally requires the containing directory, if any, to be
	// ACTIVE.
	Restore(ctx context.Context, id int64) (*models.StatusUpdateResult, error)
	DeletePermanent(ctx context.Context, id int64) (*models.StatusUpdateResult, error)

	// AutoArchiveExpired archives every expired ACTIVE document the principal
	// administers. Admin-only; org_admin is restricted to the own org.
	AutoArchiveExpired(ctx context.Context, p models.Principal) (*models.StatusUpdateResult, error)
}
