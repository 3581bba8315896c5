package models

import "time"

// Document is a stored file. DirectoryID nil means the document is unfiled.
// OrganizationID and DepartmentID are copied from the uploading principal at
// creation, not from the directory, and never change afterwards.
type Document struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Title      *string    `json:"title,omitempty"`
	MimeType   string     `json:"mimetype"`
	Size       int64      `json:"size"`
	Data       []byte     `json:"-"`
	FileType   string     `json:"file_type"`
	FileOwner  *string    `json:"file_owner,omitempty"`
	ExpireDate *time.Time `json:"expire_date,omitempty"`
	TotalPages int        `json:"total_pages"`
	DirectoryID *int64    `json:"directory_id"`
	Lifecycle
	OrganizationID int64     `json:"organization_id"`
	DepartmentID   int64     `json:"department_id"`
	CreatedBy      *int64    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// Expired reports whether the document has an expiry date in the past.
func (d *Document) Expired(now time.Time) bool {
	return d.ExpireDate != nil && d.ExpireDate.Before(now)
}
