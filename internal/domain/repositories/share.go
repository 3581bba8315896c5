package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// ShareStore persists share capabilities keyed by token. The backing store
// only needs point lookup and deletion by token; the reference deployment
// keeps one JSON file per token.
type ShareStore interface {
	Put(ctx context.Context, cap *models.ShareCapability) error
	// Get returns the capability, or a NotFoundError if the token is absent.
	Get(ctx context.Context, token string) (*models.ShareCapability, error)
	// Delete removes the record; deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
