package models

import (
	"errors"
	"testing"
	"time"

	"docvault/internal/domain"
)

func TestLifecycle_Archive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   Status
		wantErr bool
	}{
		{name: "active can be archived", start: StatusActive, wantErr: false},
		{name: "archived cannot be archived again", start: StatusArchived, wantErr: true},
		{name: "trashed cannot be archived", start: StatusTrashed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Lifecycle{Status: tt.start}
			err := l.Archive(now)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, domain.ErrInvalidTransition) {
					t.Errorf("expected ErrInvalidTransition, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l.Status != StatusArchived {
				t.Errorf("status = %s, want %s", l.Status, StatusArchived)
			}
			if l.ArchivedAt == nil || !l.ArchivedAt.Equal(now) {
				t.Errorf("ArchivedAt = %v, want %v", l.ArchivedAt, now)
			}
		})
	}
}

func TestLifecycle_Trash(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   Status
		wantErr bool
	}{
		{name: "active can be trashed", start: StatusActive, wantErr: false},
		{name: "archived can be trashed", start: StatusArchived, wantErr: false},
		{name: "trashed cannot be trashed again", start: StatusTrashed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Lifecycle{Status: tt.start}
			err := l.Trash(now)

			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidTransition) {
					t.Errorf("expected ErrInvalidTransition, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l.Status != StatusTrashed {
				t.Errorf("status = %s, want %s", l.Status, StatusTrashed)
			}
			if l.TrashedAt == nil {
				t.Error("TrashedAt not set")
			}
		})
	}
}

func TestLifecycle_Restore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("restore clears both timestamps", func(t *testing.T) {
		l := Lifecycle{Status: StatusActive}
		if err := l.Archive(now); err != nil {
			t.Fatal(err)
		}
		if err := l.Trash(now.Add(time.Hour)); err != nil {
			t.Fatal(err)
		}

		if err := l.Restore(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if l.Status != StatusActive {
			t.Errorf("status = %s, want %s", l.Status, StatusActive)
		}
		if l.ArchivedAt != nil || l.TrashedAt != nil {
			t.Errorf("timestamps not cleared: archived=%v trashed=%v", l.ArchivedAt, l.TrashedAt)
		}
	})

	t.Run("active cannot be restored", func(t *testing.T) {
		l := NewLifecycle()
		err := l.Restore()
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestInvalidStateTransitionError_Message(t *testing.T) {
	l := Lifecycle{Status: StatusTrashed}
	err := l.Archive(time.Now())
	want := "cannot transition to archived: current status is trashed"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}
