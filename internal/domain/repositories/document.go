package repositories

import (
	"context"
	"time"

	"docvault/internal/domain/models"
)

// DocumentFilter narrows document listings. Zero value means no extra filter.
type DocumentFilter struct {
	FileType *string
}

// DocumentRepository persists documents. Listing methods never load the
// binary payload; GetByID does.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id int64) (*models.Document, error)

	// GetInfoByID loads a document without its payload.
	GetInfoByID(ctx context.Context, id int64) (*models.Document, error)

	// ListByDirectory lists documents filed in directoryID (nil = unfiled)
	// with the given status, within scope.
	ListByDirectory(ctx context.Context, directoryID *int64, status models.Status, scope models.Scope, filter DocumentFilter) ([]models.Document, error)

	// ListByStatus lists every document in the given status within scope.
	ListByStatus(ctx context.Context, status models.Status, scope models.Scope) ([]models.Document, error)

	// ListByIDs loads the targeted documents without payloads; missing IDs
	// are absent from the result.
	ListByIDs(ctx context.Context, ids []int64) ([]models.Document, error)

	// ListExpired lists documents whose expiry date is before now. Unless
	// includeArchived is set only ACTIVE documents are returned.
	ListExpired(ctx context.Context, now time.Time, includeArchived bool, scope models.Scope) ([]models.Document, error)

	// ListExpiringSoon lists ACTIVE documents expiring in (now, before].
	ListExpiringSoon(ctx context.Context, now, before time.Time, scope models.Scope) ([]models.Document, error)

	// Save persists mutable metadata, status and lifecycle timestamps.
	Save(ctx context.Context, doc *models.Document) error

	// UpdateTotalPages writes the extracted page count. Split out from Save
	// so the background worker never races the metadata columns.
	UpdateTotalPages(ctx context.Context, id int64, pages int) error

	// UpdateStatusByIDs applies one set-based status+timestamp mutation to
	// all rows matching ids and cond. Returns rows changed.
	UpdateStatusByIDs(ctx context.Context, ids []int64, cond StatusCond, status models.Status, field models.TimestampField, at time.Time) (int64, error)

	// UpdateStatusByDirectoryIDs mutates every document filed in any of the
	// given directories; the cascade engine's second phase.
	UpdateStatusByDirectoryIDs(ctx context.Context, dirIDs []int64, status models.Status, field models.TimestampField, at time.Time) (int64, error)

	// ArchiveExpired archives every ACTIVE document already past expiry,
	// optionally restricted to one organization. Returns rows changed.
	ArchiveExpired(ctx context.Context, now time.Time, orgID *int64) (int64, error)

	// CountByDirectoryIDs counts documents filed in any of the directories,
	// for permanent-delete reports computed before the delete happens.
	CountByDirectoryIDs(ctx context.Context, dirIDs []int64) (int64, error)

	Delete(ctx context.Context, id int64) error
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}
