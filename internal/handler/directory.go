package handler

import (
	"context"
	"log/slog"
	"net/http"

	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
	"docvault/internal/obs"
)

// DirectoryHandler handles directory HTTP requests
type DirectoryHandler struct {
	dirService services.DirectoryService
	bulk       services.BulkCoordinator
	logger     *slog.Logger
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(dirService services.DirectoryService, bulk services.BulkCoordinator, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{dirService: dirService, bulk: bulk, logger: logger}
}

// Create creates a new directory
// POST /api/dirs
func (h *DirectoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.CreateDirectoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dir, err := h.dirService.Create(r.Context(), principal, &req)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, dir)
}

// List lists directories under a parent within the caller's scope
// GET /api/dirs?parent_id=&is_directory=&status=
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	parentID, err := httputil.QueryOptionalID(r, "parent_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	isDirectory, err := httputil.QueryBool(r, "is_directory", true)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &services.ListDirectoriesRequest{
		ParentID:    parentID,
		IsDirectory: isDirectory,
		Status:      models.Status(r.URL.Query().Get("status")),
	}

	dirs, err := h.dirService.List(r.Context(), principal, req)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	if dirs == nil {
		dirs = []models.Directory{}
	}
	httputil.RespondJSON(w, http.StatusOK, dirs)
}

// ListArchived lists archived directories within scope
// GET /api/dirs/archived
func (h *DirectoryHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, h.dirService.ListArchived)
}

// ListTrashed lists trashed directories within scope
// GET /api/dirs/trash
func (h *DirectoryHandler) ListTrashed(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, h.dirService.ListTrashed)
}

func (h *DirectoryHandler) listByStatus(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, p models.Principal) ([]models.Directory, error)) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	dirs, err := list(r.Context(), principal)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	if dirs == nil {
		dirs = []models.Directory{}
	}
	httputil.RespondJSON(w, http.StatusOK, dirs)
}

// Get retrieves one directory
// GET /api/dirs/{id}
func (h *DirectoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dir, err := h.dirService.Get(r.Context(), principal, id)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, dir)
}

// Archive archives a directory and its subtree
// PUT /api/dirs/{id}/archive
func (h *DirectoryHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.applyLifecycle(w, r, h.dirService.Archive, string(models.StatusArchived))
}

// Restore restores a directory and its subtree
// PUT /api/dirs/{id}/restore
func (h *DirectoryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.applyLifecycle(w, r, h.dirService.Restore, string(models.StatusActive))
}

// Trash moves a directory and its subtree to trash
// PUT /api/dirs/{id}/trash
func (h *DirectoryHandler) Trash(w http.ResponseWriter, r *http.Request) {
	h.applyLifecycle(w, r, h.dirService.Trash, string(models.StatusTrashed))
}

// DeletePermanent removes a directory and its subtree irreversibly
// DELETE /api/dirs/{id}/permanent
func (h *DirectoryHandler) DeletePermanent(w http.ResponseWriter, r *http.Request) {
	h.applyLifecycle(w, r, h.dirService.DeletePermanent, "deleted")
}

// BulkArchive archives a set of directories
// POST /api/dirs/bulk-archive
func (h *DirectoryHandler) BulkArchive(w http.ResponseWriter, r *http.Request) {
	h.applyBulk(w, r, services.BulkArchive, string(models.StatusArchived))
}

// BulkTrash moves a set of directories to trash
// POST /api/dirs/bulk-trash
func (h *DirectoryHandler) BulkTrash(w http.ResponseWriter, r *http.Request) {
	h.applyBulk(w, r, services.BulkTrash, string(models.StatusTrashed))
}

// BulkRestore restores a set of directories
// POST /api/dirs/bulk-restore
func (h *DirectoryHandler) BulkRestore(w http.ResponseWriter, r *http.Request) {
	h.applyBulk(w, r, services.BulkRestore, string(models.StatusActive))
}

// BulkDeletePermanent removes a set of directories irreversibly
// DELETE /api/dirs/bulk-permanent
func (h *DirectoryHandler) BulkDeletePermanent(w http.ResponseWriter, r *http.Request) {
	h.applyBulk(w, r, services.BulkDeletePermanent, "deleted")
}

func (h *DirectoryHandler) applyLifecycle(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id int64) (*models.StatusUpdateResult, error), status string) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := apply(r.Context(), id)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	obs.ObserveTransition("directory", status, result.AffectedItems)
	httputil.RespondJSON(w, http.StatusOK, result)
}

func (h *DirectoryHandler) applyBulk(w http.ResponseWriter, r *http.Request, op services.BulkOperation, status string) {
	var req models.BulkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.bulk.ApplyDirectories(r.Context(), op, &req)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	obs.ObserveTransition("directory", status, result.AffectedItems)
	httputil.RespondJSON(w, http.StatusOK, result)
}
