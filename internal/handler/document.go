package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
	"docvault/internal/obs"
)

// maxUploadBytes bounds the multipart upload size.
const maxUploadBytes = 100 << 20 // 100MB

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	bulk       services.BulkCoordinator
	shares     services.ShareIssuer
	defaultTTL int
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	docService services.DocumentService,
	bulk services.BulkCoordinator,
	shares services.ShareIssuer,
	defaultShareTTLDays int,
	logger *slog.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		bulk:       bulk,
		shares:     shares,
		defaultTTL: defaultShareTTLDays,
		logger:     logger,
	}
}

// Upload stores a new document from a multipart form
// POST /api/documents
// Form fields: file (required), title_document, directory_id,
// expire_date (YYYY-MM-DD)
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "could not read file")
		return
	}

	req := &services.UploadDocumentRequest{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}
	if title := r.FormValue("title_document"); title != "" {
		req.Title = &title
	}
	if raw := r.FormValue("directory_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "directory_id must be an integer")
			return
		}
		req.DirectoryID = &id
	}
	if raw := r.FormValue("expire_date"); raw != "" {
		expire, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid expire date format, use YYYY-MM-DD")
			return
		}
		req.ExpireDate = &expire
	}

	doc, err := h.docService.Upload(r.Context(), principal, req)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// List lists documents in a directory within the caller's scope
// GET /api/documents?directory_id=&status=&file_type=
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	directoryID, err := httputil.QueryOptionalID(r, "directory_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &services.ListDocumentsRequest{
		DirectoryID: directoryID,
		Status:      models.Status(r.URL.Query().Get("status")),
	}
	if ft := r.URL.Query().Get("file_type"); ft != "" {
		req.FileType = &ft
	}

	docs, err := h.docService.List(r.Context(), principal, req)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	respondDocuments(w, docs)
}

// ListArchived lists archived documents within scope
// GET /api/documents/archived
func (h *DocumentHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, func(ctx context.Context, p models.Principal) ([]models.Document, error) {
		return h.docService.ListArchived(ctx, p)
	})
}

// ListTrashed lists trashed documents within scope
// GET /api/documents/trash
func (h *DocumentHandler) ListTrashed(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, func(ctx context.Context, p models.Principal) ([]models.Document, error) {
		return h.docService.ListTrashed(ctx, p)
	})
}

// ListExpired lists documents past their expiry date
// GET /api/documents/expired?include_archived=
func (h *DocumentHandler) ListExpired(w http.ResponseWriter, r *http.Request) {
	includeArchived, err := httputil.QueryBool(r, "include_archived", false)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.listWith(w, r, func(ctx context.Context, p models.Principal) ([]models.Document, error) {
		return h.docService.ListExpired(ctx, p, includeArchived)
	})
}

// ListExpiringSoon lists active documents expiring within a window
// GET /api/documents/expiring-soon?days=30
func (h *DocumentHandler) ListExpiringSoon(w http.ResponseWriter, r *http.Request) {
	days, err := httputil.QueryInt(r, "days", 30)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.listWith(w, r, func(ctx context.Context, p models.Principal) ([]models.Document, error) {
		return h.docService.ListExpiringSoon(ctx, p, days)
	})
}

func (h *DocumentHandler) listWith(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, p models.Principal) ([]models.Document, error)) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	docs, err := list(r.Context(), principal)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	respondDocuments(w, docs)
}

// AutoArchiveExpired archives every expired active document the caller
// administers
// POST /api/documents/auto-archive-expired
func (h *DocumentHandler) AutoArchiveExpired(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	result, err := h.docService.AutoArchiveExpired(r.Context(), principal)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	obs.ObserveTransition("document", string(models.StatusArchived), result.AffectedItems)
	httputil.RespondJSON(w, http.StatusOK, result)
}

// GetInfo retrieves document metadata without the payload
// GET /api/documents/{id}/info
func (h *DocumentHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
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

	doc, err := h.docService.GetInfo(r.Context(), principal, id)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// Download streams the document payload
// GET /api/documents/{id}/download
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
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

	doc, err := h.docService.Get(r.Context(), principal, id)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	writeAttachment(w, doc)
}

// Archive archives a document
// PUT /api/documents/{id}/archive
func (h *DocumentHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.applyLifecycle(w, r, h.docService.Archive, string(models.StatusArchived))
}

// Restore restores a document
// PUT /api/documents/{id}/restore
func (h *DocumentHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.applyLifecycle(w, r, h.docService.Restore, string(models.StatusActive))
}

// Trash moves a document to trash
// PUT /api/documents/{id}/trash
func (h *DocumentHandler) Trash(w http.ResponseWriter, r *http.Request) {
	h.applyLifecycle(w, r, h.docService.Trash, string(models.StatusTrashed))
}

// DeletePermanent removes a document irreversibly
// DELETE /api/documents/{id}/permanent
func (h *DocumentHandler) DeletePermanent(w http.ResponseWriter, r *http.Request) {
	h.applyLifecycle(w, r, h.docService.DeletePermanent, "deleted")
}

// BulkArchive archives a set of documents
// POST /api/documents/bulk-archive
func (h *DocumentHandler) BulkArchive(w http.ResponseWriter, r *http.Request) {
	h.applyBulk(w, r, services.BulkArchive, string(models.StatusArchived))
}

// BulkTrash moves a set of documents to trash
// POST /api/documents/bulk-trash
func (h *DocumentHandler) BulkTrash(w http.ResponseWriter, r *http.Request) {
	h.applyBulk(w, r, services.BulkTrash, string(models.StatusTrashed))
}

// BulkRestore restores a set of documents
// POST /api/documents/bulk-restore
func (h *DocumentHandler) BulkRestore(w http.ResponseWriter, r *http.Request) {
	h.applyBulk(w, r, services.BulkRestore, string(models.StatusActive))
}

// BulkDeletePermanent removes a set of documents irreversibly
// DELETE /api/documents/bulk-permanent
func (h *DocumentHandler) BulkDeletePermanent(w http.ResponseWriter, r *http.Request) {
	h.applyBulk(w, r, services.BulkDeletePermanent, "deleted")
}

// Share creates a share link for a document
// POST /api/documents/{id}/share?expires_in=7
func (h *DocumentHandler) Share(w http.ResponseWriter, r *http.Request) {
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
	ttlDays, err := httputil.QueryInt(r, "expires_in", h.defaultTTL)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.shares.Issue(r.Context(), principal, id, ttlDays)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

func (h *DocumentHandler) applyLifecycle(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id int64) (*models.StatusUpdateResult, error), status string) {
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

	obs.ObserveTransition("document", status, result.AffectedItems)
	httputil.RespondJSON(w, http.StatusOK, result)
}

func (h *DocumentHandler) applyBulk(w http.ResponseWriter, r *http.Request, op services.BulkOperation, status string) {
	var req models.BulkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.bulk.ApplyDocuments(r.Context(), op, &req)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	obs.ObserveTransition("document", status, result.AffectedItems)
	httputil.RespondJSON(w, http.StatusOK, result)
}

func respondDocuments(w http.ResponseWriter, docs []models.Document) {
	if docs == nil {
		docs = []models.Document{}
	}
	httputil.RespondJSON(w, http.StatusOK, docs)
}

func writeAttachment(w http.ResponseWriter, doc *models.Document) {
	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	w.Write(doc.Data)
}
