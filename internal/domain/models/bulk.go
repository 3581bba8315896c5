package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Bulk item types. Each bulk endpoint accepts exactly one; a mismatch fails
// the whole call before any storage is touched.
const (
	ItemTypeDirectory = "directory"
	ItemTypeDocument  = "document"
)

// BulkRequest targets a set of IDs of one item type.
type BulkRequest struct {
	ItemIDs  []int64 `json:"item_ids"`
	ItemType string  `json:"item_type"`
}

// Validate checks the request shape. Item-type/operation agreement is
// checked by the coordinator, not here.
func (r BulkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemIDs, validation.Required, validation.Length(1, 1000)),
		validation.Field(&r.ItemType, validation.Required,
			validation.In(ItemTypeDirectory, ItemTypeDocument)),
	)
}

// BulkResult is the aggregate report of a bulk operation. Success is always
// true for a request that passed validation: items whose lifecycle
// precondition fails are silently skipped and simply not counted. Callers
// must not infer "all requested items were processed" from Success.
type BulkResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AffectedItems int64  `json:"affected_items"`
}

// StatusUpdateResult is the single-item counterpart of BulkResult, returned
// by archive/trash/restore/permanent-delete on one node.
type StatusUpdateResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AffectedItems int64  `json:"affected_items"`
}
