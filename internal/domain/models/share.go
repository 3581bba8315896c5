package models

import "time"

// ShareCapability is a bearer grant on one document: whoever presents the
// token may read the document until ExpiresAt, independent of the document's
// lifecycle status. Records live in the share store keyed by token and exit
// the model on revoke or lazily on first access past expiry.
type ShareCapability struct {
	Token         string    `json:"share_token"`
	DocumentID    int64     `json:"document_id"`
	DocumentName  string    `json:"document_name"`
	DocumentTitle *string   `json:"document_title,omitempty"`
	CreatedBy     int64     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ExpiredAt reports whether the capability is past its window at now.
func (c *ShareCapability) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
