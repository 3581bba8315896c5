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
	"docvault/internal/filetypes"
)

// ExtractionQueue schedules background page-count extraction after upload.
// A nil queue disables extraction.
type ExtractionQueue interface {
	Enqueue(documentID int64) string
}

type documentService struct {
	docRepo  repositories.DocumentRepository
	dirRepo  repositories.DirectoryRepository
	userRepo repositories.UserRepository
	resolver services.ScopeResolver
	registry *filetypes.Registry
	queue    ExtractionQueue
	logger   *slog.Logger
	now      func() time.Time
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	dirRepo repositories.DirectoryRepository,
	userRepo repositories.UserRepository,
	resolver services.ScopeResolver,
	registry *filetypes.Registry,
	queue ExtractionQueue,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:  docRepo,
		dirRepo:  dirRepo,
		userRepo: userRepo,
		resolver: resolver,
		registry: registry,
		queue:    queue,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Upload stores a new document. Organization and department come from the
// uploader, not from the directory; file owner defaults to the uploader's
// display name.
func (s *documentService) Upload(ctx context.Context, p models.Principal, req *services.UploadDocumentRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.MimeType, validation.Required),
		validation.Field(&req.Data, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if p.OrganizationID == nil || p.DepartmentID == nil {
		return nil, &domain.ValidationError{Message: "user must be assigned to a department and organization"}
	}

	if req.DirectoryID != nil {
		dir, err := s.dirRepo.GetByID(ctx, *req.DirectoryID)
		if err != nil {
			return nil, fmt.Errorf("directory: %w", err)
		}
		scope, err := s.resolver.Resolve(ctx, p)
		if err != nil {
			return nil, err
		}
		if !scope.Admits(dir.OrganizationID, dir.DepartmentID) {
			return nil, &domain.ForbiddenError{Message: "access denied to this directory"}
		}
	}

	title := req.Title
	if title == nil || *title == "" {
		title = &req.Name
	}

	owner := req.FileOwner
	if owner == nil {
		if u, err := s.userRepo.GetByID(ctx, p.UserID); err == nil {
			owner = &u.Name
		}
	}

	userID := p.UserID
	doc := &models.Document{
		Name:           req.Name,
		Title:          title,
		MimeType:       req.MimeType,
		Size:           int64(len(req.Data)),
		Data:           req.Data,
		FileType:       s.registry.Detect(req.MimeType),
		FileOwner:      owner,
		ExpireDate:     req.ExpireDate,
		DirectoryID:    req.DirectoryID,
		Lifecycle:      models.NewLifecycle(),
		OrganizationID: *p.OrganizationID,
		DepartmentID:   *p.DepartmentID,
		CreatedBy:      &userID,
		CreatedAt:      s.now(),
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	if s.queue != nil {
		jobID := s.queue.Enqueue(doc.ID)
		s.logger.Debug("extraction scheduled", "document_id", doc.ID, "job_id", jobID)
	}

	s.logger.Info("document uploaded",
		"id", doc.ID,
		"name", doc.Name,
		"size", doc.Size,
		"file_type", doc.FileType,
		"directory_id", doc.DirectoryID,
	)
	return doc, nil
}

// canAccess reports whether the principal may read the document: the creator
// always can, everyone else needs both halves of the resolved scope to admit
// the document's placement.
func (s *documentService) canAccess(ctx context.Context, p models.Principal, doc *models.Document) (bool, error) {
	if doc.CreatedBy != nil && *doc.CreatedBy == p.UserID {
		return true, nil
	}
	scope, err := s.resolver.Resolve(ctx, p)
	if err != nil {
		return false, err
	}
	return scope.Admits(doc.OrganizationID, doc.DepartmentID), nil
}

func (s *documentService) Get(ctx context.Context, p models.Principal, id int64) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.canAccess(ctx, p, doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.ForbiddenError{Message: "access denied"}
	}
	return doc, nil
}

func (s *documentService) GetInfo(ctx context.Context, p models.Principal, id int64) (*models.Document, error) {
	doc, err := s.docRepo.GetInfoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.canAccess(ctx, p, doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.ForbiddenError{Message: "access denied"}
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, p models.Principal, req *services.ListDocumentsRequest) ([]models.Document, error) {
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
	filter := repositories.DocumentFilter{FileType: req.FileType}
	return s.docRepo.ListByDirectory(ctx, req.DirectoryID, status, scope, filter)
}

func (s *documentService) ListArchived(ctx context.Context, p models.Principal) ([]models.Document, error) {
	return s.listByStatus(ctx, p, models.StatusArchived)
}

func (s *documentService) ListTrashed(ctx context.Context, p models.Principal) ([]models.Document, error) {
	return s.listByStatus(ctx, p, models.StatusTrashed)
}

func (s *documentService) listByStatus(ctx context.Context, p models.Principal, status models.Status) ([]models.Document, error) {
	scope, err := s.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.docRepo.ListByStatus(ctx, status, scope)
}

func (s *documentService) ListExpired(ctx context.Context, p models.Principal, includeArchived bool) ([]models.Document, error) {
	scope, err := s.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.docRepo.ListExpired(ctx, s.now(), includeArchived, scope)
}

func (s *documentService) ListExpiringSoon(ctx context.Context, p models.Principal, days int) ([]models.Document, error) {
	if days < 1 || days > 365 {
		return nil, &domain.ValidationError{Message: "days must be between 1 and 365"}
	}
	scope, err := s.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.docRepo.ListExpiringSoon(ctx, now, now.AddDate(0, 0, days), scope)
}

// Archive transitions an ACTIVE document to ARCHIVED.
func (s *documentService) Archive(ctx context.Context, id int64) (*models.StatusUpdateResult, error) {
	doc, err := s.docRepo.GetInfoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Lifecycle.Archive(s.now()); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document archived", "id", id, "name", doc.Name)
	return &models.StatusUpdateResult{
		Success:       true,
		Message:       fmt.Sprintf("Document '%s' has been archived", doc.Name),
		AffectedItems: 1,
	}, nil
}

// Trash transitions a non-TRASHED document to TRASHED.
func (s *documentService) Trash(ctx context.Context, id int64) (*models.StatusUpdateResult, error) {
	doc, err := s.docRepo.GetInfoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Lifecycle.Trash(s.now()); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document trashed", "id", id, "name", doc.Name)
	return &models.StatusUpdateResult{
		Success:       true,
		Message:       fmt.Sprintf("Document '%s' has been moved to trash", doc.Name),
		AffectedItems: 1,
	}, nil
}

// Restore transitions a non-ACTIVE document back to ACTIVE. A filed document
// additionally needs its containing directory to be ACTIVE, otherwise the
// restored document would be invisible in the tree.
func (s *documentService) Restore(ctx context.Context, id int64) (*models.StatusUpdateResult, error) {
	doc, err := s.docRepo.GetInfoByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.DirectoryID != nil {
		dir, err := s.dirRepo.GetByID(ctx, *doc.DirectoryID)
		if err != nil || dir.Status != models.StatusActive {
			return nil, &domain.ParentNotActiveError{Message: "cannot restore: containing directory is not active"}
		}
	}

	if err := doc.Lifecycle.Restore(); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document restored", "id", id, "name", doc.Name)
	return &models.StatusUpdateResult{
		Success:       true,
		Message:       fmt.Sprintf("Document '%s' has been restored", doc.Name),
		AffectedItems: 1,
	}, nil
}

// DeletePermanent removes the document irreversibly.
func (s *documentService) DeletePermanent(ctx context.Context, id int64) (*models.StatusUpdateResult, error) {
	doc, err := s.docRepo.GetInfoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("document permanently deleted", "id", id, "name", doc.Name)
	return &models.StatusUpdateResult{
		Success:       true,
		Message:       fmt.Sprintf("Document '%s' has been permanently deleted", doc.Name),
		AffectedItems: 1,
	}, nil
}

// AutoArchiveExpired archives every expired ACTIVE document the principal
// administers. super_admin sweeps all organizations; org and department
// admins only their own.
func (s *documentService) AutoArchiveExpired(ctx context.Context, p models.Principal) (*models.StatusUpdateResult, error) {
	if !p.IsAdmin() {
		return nil, &domain.ForbiddenError{Message: "only admins can trigger auto-archive"}
	}

	var orgID *int64
	if p.Role != models.RoleSuperAdmin {
		if p.OrganizationID == nil {
			return nil, &domain.ForbiddenError{Message: "admin has no organization"}
		}
		orgID = p.OrganizationID
	}

	affected, err := s.docRepo.ArchiveExpired(ctx, s.now(), orgID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("auto-archive sweep", "affected", affected, "org_id", orgID)
	return &models.StatusUpdateResult{
		Success:       true,
		Message:       fmt.Sprintf("Auto-archived %d expired documents", affected),
		AffectedItems: affected,
	}, nil
}
