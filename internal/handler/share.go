package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// ShareHandler handles the public share-link endpoints. Info and Download
// need no authentication: the token is the authorization.
type ShareHandler struct {
	shares services.ShareIssuer
	logger *slog.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(shares services.ShareIssuer, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{shares: shares, logger: logger}
}

// Info returns shared-document metadata for a valid token
// GET /api/shared/{token}/info
func (h *ShareHandler) Info(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	cap, err := h.shares.Resolve(r.Context(), token)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, cap)
}

// Download streams the shared document payload for a valid token
// GET /api/shared/{token}/download
func (h *ShareHandler) Download(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	doc, _, err := h.shares.ResolveDocument(r.Context(), token)
	if err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	writeAttachment(w, doc)
}

// Revoke deletes a share link
// DELETE /api/shared/{token}/revoke
func (h *ShareHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	if _, ok := httputil.GetPrincipal(r); !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	token := r.PathValue("token")
	if err := h.shares.Revoke(r.Context(), token); err != nil {
		httputil.RespondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Share link has been revoked",
	})
}
