package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type directoryService struct {
	dirRepo  repositories.DirectoryRepository
	docRepo  repositories.DocumentRepository
	resolver services.ScopeResolver
	txm      repositories.TransactionManager
	logger   *slog.Logger
	now      func() time.Time
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(
	dirRepo repositories.DirectoryRepository,
	docRepo repositories.DocumentRepository,
	resolver services.ScopeResolver,
	txm repositories.TransactionManager,
	logger *slog.Logger,
) services.DirectoryService {
	return &directoryService{
		dirRepo:  dirRepo,
		docRepo:  docRepo,
		resolver: resolver,
		txm:      txm,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create creates a directory node. Level and path are materialized from the
// parent here and never recomputed later.
func (s *directoryService) Create(ctx context.Context, p models.Principal, req *services.CreateDirectoryRequest) (*models.Directory, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	orgID := req.OrganizationID
	if orgID == nil {
		orgID = p.OrganizationID
	}
	deptID := req.DepartmentID
	if deptID == nil {
		deptID = p.DepartmentID
	}
	if orgID == nil || deptID == nil {
		return nil, &domain.ValidationError{Message: "user must be assigned to a department and organization"}
	}

	dir := &models.Directory{
		Name:           req.Name,
		IsDirectory:    true,
		ParentID:       req.ParentID,
		Level:          0,
		Path:           models.RootPath,
		Lifecycle:      models.NewLifecycle(),
		OrganizationID: *orgID,
		DepartmentID:   *deptID,
		CreatedAt:      s.now(),
	}

	if req.ParentID != nil {
		parent, err := s.dirRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent directory: %w", err)
		}

		scope, err := s.resolver.Resolve(ctx, p)
		if err != nil {
			return nil, err
		}
		if !scope.Admits(parent.OrganizationID, parent.DepartmentID) {
			return nil, &domain.ForbiddenError{Message: "access denied to parent directory"}
		}

		dir.Level = parent.ChildLevel()
		dir.Path = parent.ChildPath(req.Name)
	}

	if err := s.dirRepo.Create(ctx, dir); err != nil {
		return nil, err
	}

	s.logger.Info("directory created",
		"id", dir.ID,
		"name", dir.Name,
		"parent_id", dir.ParentID,
		"path", dir.Path,
	)
	return dir, nil
}

// Get loads one directory after a scope check.
func (s *directoryService) Get(ctx context.Context, p models.Principal, id int64) (*models.Directory, error) {
	dir, err := s.dirRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	scope, err := s.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	if !scope.Admits(dir.OrganizationID, dir.DepartmentID) {
		return nil, &domain.ForbiddenError{Message: "access denied to directory"}
	}
	return dir, nil
}

func (s *directoryService) List(ctx context.Context, p models.Principal, req *services.ListDirectoriesRequest) ([]models.Directory, error) {
	status := req.Status
	if status == "" {
		status = models.StatusActive
	}
	if !status.Valid() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown status %q", status)}
	}

	scope, err := s.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.dirRepo.ListByParent(ctx, req.ParentID, req.IsDirectory, status, scope)
}

func (s *directoryService) ListArchived(ctx context.Context, p models.Principal) ([]models.Directory, error) {
	return s.listByStatus(ctx, p, models.StatusArchived)
}

func (s *directoryService) ListTrashed(ctx context.Context, p models.Principal) ([]models.Directory, error) {
	return s.listByStatus(ctx, p, models.StatusTrashed)
}

func (s *directoryService) listByStatus(ctx context.Context, p models.Principal, status models.Status) ([]models.Directory, error) {
	scope, err := s.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.dirRepo.ListByStatus(ctx, status, scope)
}

// collectSubtreeIDs returns the IDs of every descendant of root, breadth
// first, one repository round trip per tree level. The root itself is not
// included.
func (s *directoryService) collectSubtreeIDs(ctx context.Context, root int64) ([]int64, error) {
	var all []int64
	frontier := []int64{root}
	for len(frontier) > 0 {
		children, err := s.dirRepo.ListChildIDs(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("collect subtree: %w", err)
		}
		all = append(all, children...)
		frontier = children
	}
	return all, nil
}

// cascade applies one status mutation to the whole subtree of root: every
// descendant directory, then every document filed anywhere in the subtree
// including root itself. Descendants transition unconditionally; only the
// root's own precondition was checked by the caller.
func (s *directoryService) cascade(ctx context.Context, root int64, status models.Status, field models.TimestampField, at time.Time) (int64, error) {
	childIDs, err := s.collectSubtreeIDs(ctx, root)
	if err != nil {
		return 0, err
	}

	var affected int64
	if len(childIDs) > 0 {
		n, err := s.dirRepo.UpdateStatusByIDs(ctx, childIDs, repositories.StatusCond{}, status, field, at)
		if err != nil {
			return 0, fmt.Errorf("cascade directories: %w", err)
		}
		affected += n
	}

	allDirIDs := append([]int64{root}, childIDs...)
	n, err := s.docRepo.UpdateStatusByDirectoryIDs(ctx, allDirIDs, status, field, at)
	if err != nil {
		return 0, fmt.Errorf("cascade documents: %w", err)
	}
	affected += n

	return affected, nil
}

// Archive transitions an ACTIVE directory and its whole subtree to ARCHIVED.
func (s *directoryService) Archive(ctx context.Context, id int64) (*models.StatusUpdateResult, error) {
	var name string
	err := s.txm.ExecTx(ctx, func(ctx context.Context) error {
		dir, err := s.dirRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		name = dir.Name

		now := s.now()
		if err := dir.Lifecycle.Archive(now); err != nil {
			return err
		}
		if err := s.dirRepo.Save(ctx, dir); err != nil {
			return err
		}

		_, err = s.cascade(ctx, id, models.StatusArchived, models.TimestampArchived, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("directory archived", "id", id, "name", name)
	return &models.StatusUpdateResult{
		Success:       true,
		Message:       fmt.Sprintf("Directory '%s' and all its contents have been archived", name),
		AffectedItems: 1,
	}, nil
}

// Trash transitions a non-TRASHED directory and its subtree to TRASHED.
func (s *directoryService) Trash(ctx context.Context, id int64) (*models.StatusUpdateResult, error) {
	var name string
	err := s.txm.ExecTx(ctx, func(ctx context.Context) error {
		dir, err := s.dirRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		name = dir.Name

		now := s.now()
		if err := dir.Lifecycle.Trash(now); err != nil {
			return err
		}
		if err := s.dirRepo.Save(ctx, dir); err != nil {
			return err
		}

		_, err = s.cascade(ctx, id, models.StatusTrashed, models.TimestampTrashed, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("directory trashed", "id", id, "name", name)
	return &models.StatusUpdateResult{
		Success:       true,
		Message:       fmt.Sprintf("Directory '%s' and all its contents have been moved to trash", name),
		AffectedItems: 1,
	}, nil
}

// Restore transitions a non-ACTIVE directory back to ACTIVE, clears both
// lifecycle timestamps, and cascades the same to the subtree. The parent, if
// any, must itself be ACTIVE so the restored node is reachable again.
func (s *directoryService) Restore(ctx context.Context, id int64) (*models.StatusUpdateResult, error) {
	var name string
	err := s.txm.ExecTx(ctx, func(ctx context.Context) error {
		dir, err := s.dirRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		name = dir.Name

		if dir.ParentID != nil {
			parent, err := s.dirRepo.GetByID(ctx, *dir.ParentID)
			if err != nil || parent.Status != models.StatusActive {
				return &domain.ParentNotActiveError{Message: "cannot restore: parent directory is not active"}
			}
		}

		if err := dir.Lifecycle.Restore(); err != nil {
			return err
		}
		if err := s.dirRepo.Save(ctx, dir); err != nil {
			return err
		}

		_, err = s.cascade(ctx, id, models.StatusActive, models.TimestampNone, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("directory restored", "id", id, "name", name)
	return &models.StatusUpdateResult{
		Success:       true,
		Message:       fmt.Sprintf("Directory '%s' and all its contents have been restored", name),
		AffectedItems: 1,
	}, nil
}

// DeletePermanent removes the directory and its whole subtree irreversibly.
// The report is computed before the delete: descendants and contained
// documents are counted while they still exist, then the single root delete
// lets the storage cascade take everything with it.
func (s *directoryService) DeletePermanent(ctx context.Context, id int64) (*models.StatusUpdateResult, error) {
	var (
		name  string
		total int64
	)
	err := s.txm.ExecTx(ctx, func(ctx context.Context) error {
		dir, err := s.dirRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		name = dir.Name

		childIDs, err := s.collectSubtreeIDs(ctx, id)
		if err != nil {
			return err
		}
		allDirIDs := append([]int64{id}, childIDs...)

		docCount, err := s.docRepo.CountByDirectoryIDs(ctx, allDirIDs)
		if err != nil {
			return err
		}
		total = int64(len(allDirIDs)) + docCount

		return s.dirRepo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("directory permanently deleted", "id", id, "name", name, "affected", total)
	return &models.StatusUpdateResult{
		Success:       true,
		Message:       fmt.Sprintf("Directory '%s' and all its contents have been permanently deleted", name),
		AffectedItems: total,
	}, nil
}
