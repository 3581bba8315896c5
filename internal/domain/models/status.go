package models

import (
	"time"

	"docvault/internal/domain"
)

// Status is the lifecycle state of a directory or document.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusTrashed  Status = "trashed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusTrashed:
		return true
	}
	return false
}

// TimestampField selects which lifecycle timestamp a cascade mutation sets.
// Restore clears both and sets neither, which is the None case.
type TimestampField int

const (
	TimestampNone TimestampField = iota
	TimestampArchived
	TimestampTrashed
)

// Lifecycle holds the status state machine shared by directories and
// documents. ArchivedAt and TrashedAt are mutually exclusive: exactly one is
// set, or neither, matching Status.
type Lifecycle struct {
	Status     Status     `json:"status"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	TrashedAt  *time.Time `json:"trashed_at,omitempty"`
}

// NewLifecycle returns the initial ACTIVE state.
func NewLifecycle() Lifecycle {
	return Lifecycle{Status: StatusActive}
}

// Archive transitions ACTIVE -> ARCHIVED. Repeating the transition fails
// rather than silently succeeding.
func (l *Lifecycle) Archive(now time.Time) error {
	if l.Status != StatusActive {
		return &domain.InvalidStateTransitionError{
			Current:   string(l.Status),
			Requested: string(StatusArchived),
		}
	}
	l.Status = StatusArchived
	l.ArchivedAt = &now
	return nil
}

// Trash transitions ACTIVE or ARCHIVED -> TRASHED.
func (l *Lifecycle) Trash(now time.Time) error {
	if l.Status == StatusTrashed {
		return &domain.InvalidStateTransitionError{
			Current:   string(l.Status),
			Requested: string(StatusTrashed),
		}
	}
	l.Status = StatusTrashed
	l.TrashedAt = &now
	return nil
}

// Restore transitions ARCHIVED or TRASHED back to ACTIVE and clears both
// lifecycle timestamps. The caller is responsible for the parent-active
// precondition; the state machine only rejects restoring an active node.
func (l *Lifecycle) Restore() error {
	if l.Status == StatusActive {
		return &domain.InvalidStateTransitionError{
			Current:   string(l.Status),
			Requested: string(StatusActive),
		}
	}
	l.Status = StatusActive
	l.ArchivedAt = nil
	l.TrashedAt = nil
	return nil
}
