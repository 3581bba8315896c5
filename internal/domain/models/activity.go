package models

import "time"

// ActivityEntry is one recorded API request. Written best-effort by the
// activity middleware; never on the request's critical path.
type ActivityEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	DurationMS float64   `json:"duration_ms"`
	ClientIP   string    `json:"client_ip"`
	UserID     *int64    `json:"user_id"`
}
