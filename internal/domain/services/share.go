package services

import (
	"context"
	"time"

	"docvault/internal/domain/models"
)

// IssueShareResult is returned when a share link is created.
type IssueShareResult struct {
	ShareLink     string    `json:"share_link"`
	Token         string    `json:"share_token"`
	ExpiresAt     time.Time `json:"expires_at"`
	ExpiresInDays int       `json:"expires_in_days"`
}

// ShareIssuer creates and resolves bearer capability tokens scoping a single
// document to an expiry window. Tokens work independently of the document's
// lifecycle status: a trashed document stays reachable through a valid token.
type ShareIssuer interface {
	// Issue grants a capability if the principal created the document or the
	// principal's resolved scope contains the document's org and department.
	Issue(ctx context.Context, p models.Principal, documentID int64, ttlDays int) (*IssueShareResult, error)
	// Resolve maps a token to its capability. Tokens past expiry are deleted
	// on first access and reported as expired; unknown tokens as not found.
	Resolve(ctx context.Context, token string) (*models.ShareCapability, error)
	// ResolveDocument resolves the token and loads the shared document with
	// its payload, bypassing scope checks: the token is the authorization.
	ResolveDocument(ctx context.Context, token string) (*models.Document, *models.ShareCapability, error)
	// Revoke deletes the capability unconditionally if present.
	Revoke(ctx context.Context, token string) error
}
