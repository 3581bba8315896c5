package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// testWorld is a complete in-memory backend: tenant fixtures, linked
// directory and document repos, and a resolver over them.
type testWorld struct {
	dirs  *fakeDirRepo
	docs  *fakeDocRepo
	orgs  *fakeOrgRepo
	depts *fakeDeptRepo
	users *fakeUserRepo
}

func newTestWorld() *testWorld {
	w := &testWorld{
		dirs:  newFakeDirRepo(),
		docs:  newFakeDocRepo(),
		orgs:  newFakeOrgRepo(1, 2),
		depts: newFakeDeptRepo(),
		users: newFakeUserRepo(
			&models.User{ID: 1, Name: "Alice", Email: "alice@example.com", Role: models.RoleUser, OrganizationID: ptr(int64(1)), DepartmentID: ptr(int64(10))},
			&models.User{ID: 2, Name: "Root", Email: "root@example.com", Role: models.RoleSuperAdmin},
		),
	}
	w.dirs.docs = w.docs
	w.depts.add(10, 1)
	w.depts.add(11, 1)
	w.depts.add(20, 2)
	return w
}

func (w *testWorld) resolver() services.ScopeResolver {
	return NewScopeResolver(w.orgs, w.depts)
}

func (w *testWorld) directoryService() *directoryService {
	return &directoryService{
		dirRepo:  w.dirs,
		docRepo:  w.docs,
		resolver: w.resolver(),
		txm:      fakeTxManager{},
		logger:   testLogger(),
		now:      func() time.Time { return testTime },
	}
}

func alicePrincipal() models.Principal {
	return models.Principal{UserID: 1, Role: models.RoleUser, OrganizationID: ptr(int64(1)), DepartmentID: ptr(int64(10))}
}

func superPrincipal() models.Principal {
	return models.Principal{UserID: 2, Role: models.RoleSuperAdmin}
}

// addDir seeds a directory with the given lifecycle state.
func (w *testWorld) addDir(name string, parent *models.Directory, status models.Status) *models.Directory {
	d := models.Directory{
		Name:           name,
		IsDirectory:    true,
		Level:          0,
		Path:           models.RootPath,
		Lifecycle:      models.Lifecycle{Status: status},
		OrganizationID: 1,
		DepartmentID:   10,
		CreatedAt:      testTime,
	}
	if parent != nil {
		d.ParentID = &parent.ID
		d.Level = parent.ChildLevel()
		d.Path = parent.ChildPath(name)
	}
	if status == models.StatusArchived {
		d.ArchivedAt = ptr(testTime)
	}
	if status == models.StatusTrashed {
		d.TrashedAt = ptr(testTime)
	}
	return w.dirs.add(d)
}

// addDoc seeds a document filed in dir (nil means unfiled).
func (w *testWorld) addDoc(name string, dir *models.Directory, status models.Status) *models.Document {
	d := models.Document{
		Name:           name,
		MimeType:       "application/pdf",
		FileType:       "PDF",
		Lifecycle:      models.Lifecycle{Status: status},
		OrganizationID: 1,
		DepartmentID:   10,
		CreatedBy:      ptr(int64(1)),
		CreatedAt:      testTime,
	}
	if dir != nil {
		d.DirectoryID = &dir.ID
	}
	if status == models.StatusArchived {
		d.ArchivedAt = ptr(testTime)
	}
	if status == models.StatusTrashed {
		d.TrashedAt = ptr(testTime)
	}
	return w.docs.add(d)
}

func TestDirectoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("root directory from principal defaults", func(t *testing.T) {
		w := newTestWorld()
		svc := w.directoryService()

		dir, err := svc.Create(ctx, alicePrincipal(), &services.CreateDirectoryRequest{Name: "reports"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Level != 0 || dir.Path != "/" {
			t.Errorf("root placement = level %d path %q, want 0 %q", dir.Level, dir.Path, "/")
		}
		if dir.OrganizationID != 1 || dir.DepartmentID != 10 {
			t.Errorf("tenant = org %d dept %d, want 1 10", dir.OrganizationID, dir.DepartmentID)
		}
		if dir.Status != models.StatusActive {
			t.Errorf("status = %s, want active", dir.Status)
		}
	})

	t.Run("child inherits level and path from parent", func(t *testing.T) {
		w := newTestWorld()
		parent := w.addDir("reports", nil, models.StatusActive)
		svc := w.directoryService()

		dir, err := svc.Create(ctx, alicePrincipal(), &services.CreateDirectoryRequest{
			Name:     "2025",
			ParentID: &parent.ID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Level != 1 {
			t.Errorf("level = %d, want 1", dir.Level)
		}
		if dir.Path != "/2025" {
			t.Errorf("path = %q, want %q", dir.Path, "/2025")
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		w := newTestWorld()
		svc := w.directoryService()

		_, err := svc.Create(ctx, alicePrincipal(), &services.CreateDirectoryRequest{Name: ""})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("unassigned principal rejected", func(t *testing.T) {
		w := newTestWorld()
		svc := w.directoryService()

		p := models.Principal{UserID: 3, Role: models.RoleUser}
		_, err := svc.Create(ctx, p, &services.CreateDirectoryRequest{Name: "reports"})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("parent outside scope rejected", func(t *testing.T) {
		w := newTestWorld()
		parent := w.addDir("other", nil, models.StatusActive)
		w.dirs.dirs[parent.ID].DepartmentID = 11 // not Alice's department
		svc := w.directoryService()

		_, err := svc.Create(ctx, alicePrincipal(), &services.CreateDirectoryRequest{
			Name:     "sub",
			ParentID: &parent.ID,
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		w := newTestWorld()
		svc := w.directoryService()

		_, err := svc.Create(ctx, alicePrincipal(), &services.CreateDirectoryRequest{
			Name:     "sub",
			ParentID: ptr(int64(999)),
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestDirectoryService_Archive_CascadesSubtree(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	root := w.addDir("root", nil, models.StatusActive)
	child := w.addDir("child", root, models.StatusActive)
	grand := w.addDir("grand", child, models.StatusActive)
	docRoot := w.addDoc("in-root.pdf", root, models.StatusActive)
	docGrand := w.addDoc("in-grand.pdf", grand, models.StatusActive)
	outside := w.addDoc("outside.pdf", nil, models.StatusActive)

	svc := w.directoryService()
	result, err := svc.Archive(ctx, root.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Success {
		t.Error("result not successful")
	}
	want := "Directory 'root' and all its contents have been archived"
	if result.Message != want {
		t.Errorf("message = %q, want %q", result.Message, want)
	}
	if result.AffectedItems != 1 {
		t.Errorf("affected = %d, want 1", result.AffectedItems)
	}

	for _, id := range []int64{root.ID, child.ID, grand.ID} {
		d := w.dirs.dirs[id]
		if d.Status != models.StatusArchived {
			t.Errorf("directory %d status = %s, want archived", id, d.Status)
		}
		if d.ArchivedAt == nil || !d.ArchivedAt.Equal(testTime) {
			t.Errorf("directory %d ArchivedAt = %v, want %v", id, d.ArchivedAt, testTime)
		}
	}
	for _, id := range []int64{docRoot.ID, docGrand.ID} {
		if got := w.docs.docs[id].Status; got != models.StatusArchived {
			t.Errorf("document %d status = %s, want archived", id, got)
		}
	}
	if got := w.docs.docs[outside.ID].Status; got != models.StatusActive {
		t.Errorf("unrelated document status = %s, want active", got)
	}
}

func TestDirectoryService_Archive_RequiresActive(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	dir := w.addDir("old", nil, models.StatusArchived)

	svc := w.directoryService()
	_, err := svc.Archive(ctx, dir.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestDirectoryService_Trash_AcceptsArchived(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	dir := w.addDir("old", nil, models.StatusArchived)
	doc := w.addDoc("doc.pdf", dir, models.StatusArchived)

	svc := w.directoryService()
	result, err := svc.Trash(ctx, dir.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Directory 'old' and all its contents have been moved to trash"
	if result.Message != want {
		t.Errorf("message = %q, want %q", result.Message, want)
	}
	if got := w.dirs.dirs[dir.ID].Status; got != models.StatusTrashed {
		t.Errorf("directory status = %s, want trashed", got)
	}
	if got := w.docs.docs[doc.ID].Status; got != models.StatusTrashed {
		t.Errorf("document status = %s, want trashed", got)
	}
}

func TestDirectoryService_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked when parent is not active", func(t *testing.T) {
		w := newTestWorld()
		parent := w.addDir("parent", nil, models.StatusArchived)
		child := w.addDir("child", parent, models.StatusArchived)

		svc := w.directoryService()
		_, err := svc.Restore(ctx, child.ID)
		if !errors.Is(err, domain.ErrParentNotActive) {
			t.Errorf("expected ErrParentNotActive, got %v", err)
		}
		if got := w.dirs.dirs[child.ID].Status; got != models.StatusArchived {
			t.Errorf("child status = %s, want archived (unchanged)", got)
		}
	})

	t.Run("clears timestamps on the whole subtree", func(t *testing.T) {
		w := newTestWorld()
		root := w.addDir("root", nil, models.StatusTrashed)
		child := w.addDir("child", root, models.StatusTrashed)
		doc := w.addDoc("doc.pdf", child, models.StatusTrashed)

		svc := w.directoryService()
		result, err := svc.Restore(ctx, root.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "Directory 'root' and all its contents have been restored"
		if result.Message != want {
			t.Errorf("message = %q, want %q", result.Message, want)
		}

		for _, id := range []int64{root.ID, child.ID} {
			d := w.dirs.dirs[id]
			if d.Status != models.StatusActive {
				t.Errorf("directory %d status = %s, want active", id, d.Status)
			}
			if d.ArchivedAt != nil || d.TrashedAt != nil {
				t.Errorf("directory %d timestamps not cleared: archived=%v trashed=%v", id, d.ArchivedAt, d.TrashedAt)
			}
		}
		got := w.docs.docs[doc.ID]
		if got.Status != models.StatusActive || got.TrashedAt != nil {
			t.Errorf("document = %s/%v, want active with cleared timestamp", got.Status, got.TrashedAt)
		}
	})

	t.Run("active directory cannot be restored", func(t *testing.T) {
		w := newTestWorld()
		dir := w.addDir("live", nil, models.StatusActive)

		svc := w.directoryService()
		_, err := svc.Restore(ctx, dir.ID)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestDirectoryService_DeletePermanent(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	root := w.addDir("root", nil, models.StatusTrashed)
	child := w.addDir("child", root, models.StatusTrashed)
	grand := w.addDir("grand", child, models.StatusTrashed)
	w.addDoc("a.pdf", root, models.StatusTrashed)
	w.addDoc("b.pdf", grand, models.StatusTrashed)
	outside := w.addDoc("keep.pdf", nil, models.StatusActive)

	svc := w.directoryService()
	result, err := svc.DeletePermanent(ctx, root.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 directories + 2 documents
	if result.AffectedItems != 5 {
		t.Errorf("affected = %d, want 5", result.AffectedItems)
	}
	want := "Directory 'root' and all its contents have been permanently deleted"
	if result.Message != want {
		t.Errorf("message = %q, want %q", result.Message, want)
	}

	if len(w.dirs.dirs) != 0 {
		t.Errorf("%d directories remain, want 0", len(w.dirs.dirs))
	}
	if _, ok := w.docs.docs[outside.ID]; !ok {
		t.Error("unfiled document was deleted")
	}
	if len(w.docs.docs) != 1 {
		t.Errorf("%d documents remain, want 1", len(w.docs.docs))
	}
}

func TestDirectoryService_List_ScopesToCaller(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	mine := w.addDir("mine", nil, models.StatusActive)
	other := w.addDir("other", nil, models.StatusActive)
	w.dirs.dirs[other.ID].DepartmentID = 11

	svc := w.directoryService()
	dirs, err := svc.List(ctx, alicePrincipal(), &services.ListDirectoriesRequest{IsDirectory: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dirs) != 1 || dirs[0].ID != mine.ID {
		t.Errorf("listed %d directories, want only id %d", len(dirs), mine.ID)
	}

	all, err := svc.List(ctx, superPrincipal(), &services.ListDirectoriesRequest{IsDirectory: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("super admin listed %d directories, want 2", len(all))
	}
}

func TestDirectoryService_List_UnknownStatusRejected(t *testing.T) {
	w := newTestWorld()
	svc := w.directoryService()

	_, err := svc.List(context.Background(), alicePrincipal(), &services.ListDirectoriesRequest{
		IsDirectory: true,
		Status:      "deleted",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
