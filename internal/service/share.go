package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

// shareTokenBytes is the entropy of a share token before encoding.
const shareTokenBytes = 32

type shareIssuer struct {
	store    repositories.ShareStore
	docRepo  repositories.DocumentRepository
	resolver services.ScopeResolver
	logger   *slog.Logger
	now      func() time.Time
}

// NewShareIssuer creates a new share issuer.
func NewShareIssuer(
	store repositories.ShareStore,
	docRepo repositories.DocumentRepository,
	resolver services.ScopeResolver,
	logger *slog.Logger,
) services.ShareIssuer {
	return &shareIssuer{
		store:    store,
		docRepo:  docRepo,
		resolver: resolver,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func newShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Issue grants a bearer capability on one document. The creator may always
// share the own documents; everyone else needs the resolved scope to admit
// the document's placement.
func (s *shareIssuer) Issue(ctx context.Context, p models.Principal, documentID int64, ttlDays int) (*services.IssueShareResult, error) {
	if ttlDays < 1 || ttlDays > 365 {
		return nil, &domain.ValidationError{Message: "expires_in must be between 1 and 365 days"}
	}

	doc, err := s.docRepo.GetInfoByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if doc.CreatedBy == nil || *doc.CreatedBy != p.UserID {
		scope, err := s.resolver.Resolve(ctx, p)
		if err != nil {
			return nil, err
		}
		if !scope.Admits(doc.OrganizationID, doc.DepartmentID) {
			return nil, &domain.ForbiddenError{Message: "you don't have access to this document"}
		}
	}

	token, err := newShareToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	cap := &models.ShareCapability{
		Token:         token,
		DocumentID:    doc.ID,
		DocumentName:  doc.Name,
		DocumentTitle: doc.Title,
		CreatedBy:     p.UserID,
		CreatedAt:     now,
		ExpiresAt:     now.AddDate(0, 0, ttlDays),
	}
	if err := s.store.Put(ctx, cap); err != nil {
		return nil, err
	}

	s.logger.Info("share link created",
		"document_id", doc.ID,
		"created_by", p.UserID,
		"expires_at", cap.ExpiresAt,
	)
	return &services.IssueShareResult{
		ShareLink:     "/shared/" + token,
		Token:         token,
		ExpiresAt:     cap.ExpiresAt,
		ExpiresInDays: ttlDays,
	}, nil
}

// Resolve maps a token to its capability. Expired capabilities are deleted
// on first access, so the store self-cleans without a sweeper.
func (s *shareIssuer) Resolve(ctx context.Context, token string) (*models.ShareCapability, error) {
	cap, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if cap.ExpiredAt(s.now()) {
		if err := s.store.Delete(ctx, token); err != nil {
			s.logger.Warn("expired share token not deleted", "error", err)
		}
		return nil, &domain.ExpiredError{Message: "share link has expired"}
	}
	return cap, nil
}

// ResolveDocument resolves the token and loads the shared document with its
// payload. The capability is the authorization: no scope check, and lifecycle
// status is ignored. Only permanent deletion breaks the link.
func (s *shareIssuer) ResolveDocument(ctx context.Context, token string) (*models.Document, *models.ShareCapability, error) {
	cap, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, cap.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	return doc, cap, nil
}

// Revoke deletes the capability unconditionally.
func (s *shareIssuer) Revoke(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, token); err != nil {
		return err
	}
	s.logger.Info("share link revoked")
	return nil
}
