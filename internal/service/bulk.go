package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type bulkCoordinator struct {
	dirRepo repositories.DirectoryRepository
	docRepo repositories.DocumentRepository
	txm     repositories.TransactionManager
	logger  *slog.Logger
	now     func() time.Time
}

// NewBulkCoordinator creates a new bulk coordinator.
func NewBulkCoordinator(
	dirRepo repositories.DirectoryRepository,
	docRepo repositories.DocumentRepository,
	txm repositories.TransactionManager,
	logger *slog.Logger,
) services.BulkCoordinator {
	return &bulkCoordinator{
		dirRepo: dirRepo,
		docRepo: docRepo,
		txm:     txm,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// checkRequest validates the request shape and the item-type agreement. Both
// fail the whole call before any storage is touched; everything after this
// point is best effort with silent skips.
func checkRequest(req *models.BulkRequest, wantType string) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.ItemType != wantType {
		return &domain.ValidationError{
			Message: fmt.Sprintf("this endpoint only supports %s items", wantType),
		}
	}
	return nil
}

// ApplyDirectories applies one lifecycle operation to a set of directory
// roots. Each qualifying root cascades to its subtree; roots whose
// precondition fails are skipped and not counted. The count reports roots,
// not cascaded descendants.
func (c *bulkCoordinator) ApplyDirectories(ctx context.Context, op services.BulkOperation, req *models.BulkRequest) (*models.BulkResult, error) {
	if err := checkRequest(req, models.ItemTypeDirectory); err != nil {
		return nil, err
	}

	var (
		affected int64
		message  string
	)
	err := c.txm.ExecTx(ctx, func(ctx context.Context) error {
		switch op {
		case services.BulkArchive, services.BulkTrash, services.BulkRestore:
			n, err := c.applyDirectoryLifecycle(ctx, op, req.ItemIDs)
			if err != nil {
				return err
			}
			affected = n
		case services.BulkDeletePermanent:
			n, err := c.dirRepo.DeleteByIDs(ctx, req.ItemIDs)
			if err != nil {
				return err
			}
			affected = n
		default:
			return &domain.ValidationError{Message: fmt.Sprintf("unknown bulk operation %q", op)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch op {
	case services.BulkArchive:
		message = fmt.Sprintf("Successfully archived %d directories", affected)
	case services.BulkTrash:
		message = fmt.Sprintf("Successfully moved %d directories to trash", affected)
	case services.BulkRestore:
		message = fmt.Sprintf("Successfully restored %d directories", affected)
	case services.BulkDeletePermanent:
		message = fmt.Sprintf("Successfully deleted %d directories permanently", affected)
	}

	c.logger.Info("bulk directory operation", "op", op, "requested", len(req.ItemIDs), "affected", affected)
	return &models.BulkResult{Success: true, Message: message, AffectedItems: affected}, nil
}

func (c *bulkCoordinator) applyDirectoryLifecycle(ctx context.Context, op services.BulkOperation, ids []int64) (int64, error) {
	dirs, err := c.dirRepo.ListByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	now := c.now()
	var affected int64
	for i := range dirs {
		dir := &dirs[i]

		switch op {
		case services.BulkArchive:
			if dir.Lifecycle.Archive(now) != nil {
				continue
			}
		case services.BulkTrash:
			if dir.Lifecycle.Trash(now) != nil {
				continue
			}
		case services.BulkRestore:
			if dir.ParentID != nil {
				parent, err := c.dirRepo.GetByID(ctx, *dir.ParentID)
				if err != nil || parent.Status != models.StatusActive {
					continue
				}
			}
			if dir.Lifecycle.Restore() != nil {
				continue
			}
		}

		if err := c.dirRepo.Save(ctx, dir); err != nil {
			return 0, err
		}
		if err := c.cascadeDirectory(ctx, dir.ID, op, now); err != nil {
			return 0, err
		}
		affected++
	}
	return affected, nil
}

// cascadeDirectory pushes the root's new status onto the whole subtree,
// mirroring the single-item cascade: descendant directories first, then
// every document filed anywhere under the root.
func (c *bulkCoordinator) cascadeDirectory(ctx context.Context, root int64, op services.BulkOperation, now time.Time) error {
	var (
		status models.Status
		field  models.TimestampField
	)
	switch op {
	case services.BulkArchive:
		status, field = models.StatusArchived, models.TimestampArchived
	case services.BulkTrash:
		status, field = models.StatusTrashed, models.TimestampTrashed
	case services.BulkRestore:
		status, field = models.StatusActive, models.TimestampNone
	}

	var childIDs []int64
	frontier := []int64{root}
	for len(frontier) > 0 {
		children, err := c.dirRepo.ListChildIDs(ctx, frontier)
		if err != nil {
			return err
		}
		childIDs = append(childIDs, children...)
		frontier = children
	}

	if len(childIDs) > 0 {
		if _, err := c.dirRepo.UpdateStatusByIDs(ctx, childIDs, repositories.StatusCond{}, status, field, now); err != nil {
			return err
		}
	}

	allDirIDs := append([]int64{root}, childIDs...)
	_, err := c.docRepo.UpdateStatusByDirectoryIDs(ctx, allDirIDs, status, field, now)
	return err
}

// ApplyDocuments applies one lifecycle operation to a set of documents.
// Archive and trash are single set-based conditional updates; restore loads
// the candidates because each needs its containing directory checked.
func (c *bulkCoordinator) ApplyDocuments(ctx context.Context, op services.BulkOperation, req *models.BulkRequest) (*models.BulkResult, error) {
	if err := checkRequest(req, models.ItemTypeDocument); err != nil {
		return nil, err
	}

	var (
		affected int64
		message  string
	)
	err := c.txm.ExecTx(ctx, func(ctx context.Context) error {
		now := c.now()
		var err error

		switch op {
		case services.BulkArchive:
			affected, err = c.docRepo.UpdateStatusByIDs(ctx, req.ItemIDs,
				repositories.CondStatusEquals(models.StatusActive),
				models.StatusArchived, models.TimestampArchived, now)
		case services.BulkTrash:
			affected, err = c.docRepo.UpdateStatusByIDs(ctx, req.ItemIDs,
				repositories.CondStatusNot(models.StatusTrashed),
				models.StatusTrashed, models.TimestampTrashed, now)
		case services.BulkRestore:
			affected, err = c.restoreDocuments(ctx, req.ItemIDs)
		case services.BulkDeletePermanent:
			affected, err = c.docRepo.DeleteByIDs(ctx, req.ItemIDs)
		default:
			return &domain.ValidationError{Message: fmt.Sprintf("unknown bulk operation %q", op)}
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	switch op {
	case services.BulkArchive:
		message = fmt.Sprintf("Successfully archived %d documents", affected)
	case services.BulkTrash:
		message = fmt.Sprintf("Successfully moved %d documents to trash", affected)
	case services.BulkRestore:
		message = fmt.Sprintf("Successfully restored %d documents", affected)
	case services.BulkDeletePermanent:
		message = fmt.Sprintf("Successfully deleted %d documents permanently", affected)
	}

	c.logger.Info("bulk document operation", "op", op, "requested", len(req.ItemIDs), "affected", affected)
	return &models.BulkResult{Success: true, Message: message, AffectedItems: affected}, nil
}

func (c *bulkCoordinator) restoreDocuments(ctx context.Context, ids []int64) (int64, error) {
	docs, err := c.docRepo.ListByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	// directory statuses are looked up once per distinct directory
	dirActive := map[int64]bool{}
	var affected int64
	for i := range docs {
		doc := &docs[i]
		if doc.Status == models.StatusActive {
			continue
		}

		if doc.DirectoryID != nil {
			active, seen := dirActive[*doc.DirectoryID]
			if !seen {
				dir, err := c.dirRepo.GetByID(ctx, *doc.DirectoryID)
				active = err == nil && dir.Status == models.StatusActive
				dirActive[*doc.DirectoryID] = active
			}
			if !active {
				continue
			}
		}

		if doc.Lifecycle.Restore() != nil {
			continue
		}
		if err := c.docRepo.Save(ctx, doc); err != nil {
			return 0, err
		}
		affected++
	}
	return affected, nil
}
