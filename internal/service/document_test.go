package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
	"docvault/internal/filetypes"
)

type fakeQueue struct {
	enqueued []int64
}

func (q *fakeQueue) Enqueue(documentID int64) string {
	q.enqueued = append(q.enqueued, documentID)
	return "job-1"
}

func (w *testWorld) documentService(queue ExtractionQueue) *documentService {
	return &documentService{
		docRepo:  w.docs,
		dirRepo:  w.dirs,
		userRepo: w.users,
		resolver: w.resolver(),
		registry: filetypes.Default(),
		queue:    queue,
		logger:   testLogger(),
		now:      func() time.Time { return testTime },
	}
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults filled from uploader", func(t *testing.T) {
		w := newTestWorld()
		queue := &fakeQueue{}
		svc := w.documentService(queue)

		doc, err := svc.Upload(ctx, alicePrincipal(), &services.UploadDocumentRequest{
			Name:     "report.pdf",
			MimeType: "application/pdf",
			Data:     []byte("%PDF-1.4"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if doc.Title == nil || *doc.Title != "report.pdf" {
			t.Errorf("title = %v, want defaulted to name", doc.Title)
		}
		if doc.FileType != "PDF" {
			t.Errorf("file type = %q, want PDF", doc.FileType)
		}
		if doc.FileOwner == nil || *doc.FileOwner != "Alice" {
			t.Errorf("owner = %v, want uploader's name", doc.FileOwner)
		}
		if doc.CreatedBy == nil || *doc.CreatedBy != 1 {
			t.Errorf("created_by = %v, want 1", doc.CreatedBy)
		}
		if doc.OrganizationID != 1 || doc.DepartmentID != 10 {
			t.Errorf("tenant = org %d dept %d, want 1 10", doc.OrganizationID, doc.DepartmentID)
		}
		if doc.Size != int64(len("%PDF-1.4")) {
			t.Errorf("size = %d, want %d", doc.Size, len("%PDF-1.4"))
		}
		if len(queue.enqueued) != 1 || queue.enqueued[0] != doc.ID {
			t.Errorf("extraction queue got %v, want [%d]", queue.enqueued, doc.ID)
		}
	})

	t.Run("nil queue disables extraction", func(t *testing.T) {
		w := newTestWorld()
		svc := w.documentService(nil)

		_, err := svc.Upload(ctx, alicePrincipal(), &services.UploadDocumentRequest{
			Name:     "photo.png",
			MimeType: "image/png",
			Data:     []byte{1, 2, 3},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty payload rejected", func(t *testing.T) {
		w := newTestWorld()
		svc := w.documentService(nil)

		_, err := svc.Upload(ctx, alicePrincipal(), &services.UploadDocumentRequest{
			Name:     "empty.pdf",
			MimeType: "application/pdf",
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("unassigned principal rejected", func(t *testing.T) {
		w := newTestWorld()
		svc := w.documentService(nil)

		p := models.Principal{UserID: 3, Role: models.RoleUser}
		_, err := svc.Upload(ctx, p, &services.UploadDocumentRequest{
			Name:     "report.pdf",
			MimeType: "application/pdf",
			Data:     []byte("x"),
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("directory outside scope rejected", func(t *testing.T) {
		w := newTestWorld()
		dir := w.addDir("other", nil, models.StatusActive)
		w.dirs.dirs[dir.ID].DepartmentID = 11
		svc := w.documentService(nil)

		_, err := svc.Upload(ctx, alicePrincipal(), &services.UploadDocumentRequest{
			Name:        "report.pdf",
			MimeType:    "application/pdf",
			Data:        []byte("x"),
			DirectoryID: &dir.ID,
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("expected forbidden, got %v", err)
		}
	})
}

func TestDocumentService_Get_AccessControl(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()

	// filed in another department but created by Alice
	own := w.addDoc("mine.pdf", nil, models.StatusActive)
	w.docs.docs[own.ID].DepartmentID = 11

	// another department, created by someone else
	foreign := w.addDoc("theirs.pdf", nil, models.StatusActive)
	w.docs.docs[foreign.ID].DepartmentID = 11
	w.docs.docs[foreign.ID].CreatedBy = ptr(int64(99))

	svc := w.documentService(nil)

	if _, err := svc.Get(ctx, alicePrincipal(), own.ID); err != nil {
		t.Errorf("creator denied access to own document: %v", err)
	}
	if _, err := svc.Get(ctx, alicePrincipal(), foreign.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, superPrincipal(), foreign.ID); err != nil {
		t.Errorf("super admin denied access: %v", err)
	}
}

func TestDocumentService_Restore_RequiresActiveDirectory(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	frozen := w.addDir("frozen", nil, models.StatusArchived)
	doc := w.addDoc("doc.pdf", frozen, models.StatusArchived)

	svc := w.documentService(nil)
	_, err := svc.Restore(ctx, doc.ID)
	if !errors.Is(err, domain.ErrParentNotActive) {
		t.Fatalf("expected ErrParentNotActive, got %v", err)
	}
	want := "cannot restore: containing directory is not active"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestDocumentService_Restore_UnfiledDocument(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	doc := w.addDoc("loose.pdf", nil, models.StatusTrashed)

	svc := w.documentService(nil)
	result, err := svc.Restore(ctx, doc.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Document 'loose.pdf' has been restored"
	if result.Message != want {
		t.Errorf("message = %q, want %q", result.Message, want)
	}
	got := w.docs.docs[doc.ID]
	if got.Status != models.StatusActive || got.TrashedAt != nil {
		t.Errorf("document = %s/%v, want active with cleared timestamp", got.Status, got.TrashedAt)
	}
}

func TestDocumentService_Lifecycle_Messages(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	doc := w.addDoc("report.pdf", nil, models.StatusActive)
	svc := w.documentService(nil)

	archive, err := svc.Archive(ctx, doc.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if want := "Document 'report.pdf' has been archived"; archive.Message != want {
		t.Errorf("archive message = %q, want %q", archive.Message, want)
	}

	trash, err := svc.Trash(ctx, doc.ID)
	if err != nil {
		t.Fatalf("trash: %v", err)
	}
	if want := "Document 'report.pdf' has been moved to trash"; trash.Message != want {
		t.Errorf("trash message = %q, want %q", trash.Message, want)
	}

	del, err := svc.DeletePermanent(ctx, doc.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if want := "Document 'report.pdf' has been permanently deleted"; del.Message != want {
		t.Errorf("delete message = %q, want %q", del.Message, want)
	}
	if _, ok := w.docs.docs[doc.ID]; ok {
		t.Error("document still present after permanent delete")
	}
}

func TestDocumentService_AutoArchiveExpired(t *testing.T) {
	ctx := context.Background()
	past := testTime.Add(-24 * time.Hour)

	t.Run("non-admin forbidden", func(t *testing.T) {
		w := newTestWorld()
		svc := w.documentService(nil)

		_, err := svc.AutoArchiveExpired(ctx, alicePrincipal())
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("expected forbidden, got %v", err)
		}
	})

	t.Run("org admin sweeps own organization only", func(t *testing.T) {
		w := newTestWorld()
		mine := w.addDoc("mine.pdf", nil, models.StatusActive)
		w.docs.docs[mine.ID].ExpireDate = &past
		other := w.addDoc("other.pdf", nil, models.StatusActive)
		w.docs.docs[other.ID].ExpireDate = &past
		w.docs.docs[other.ID].OrganizationID = 2
		svc := w.documentService(nil)

		p := models.Principal{UserID: 5, Role: models.RoleOrgAdmin, OrganizationID: ptr(int64(1)), DepartmentID: ptr(int64(10))}
		result, err := svc.AutoArchiveExpired(ctx, p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.AffectedItems != 1 {
			t.Errorf("affected = %d, want 1", result.AffectedItems)
		}
		if want := "Auto-archived 1 expired documents"; result.Message != want {
			t.Errorf("message = %q, want %q", result.Message, want)
		}
		if w.docs.archiveExpiredOrg == nil || *w.docs.archiveExpiredOrg != 1 {
			t.Errorf("sweep org = %v, want 1", w.docs.archiveExpiredOrg)
		}
		if got := w.docs.docs[other.ID].Status; got != models.StatusActive {
			t.Errorf("other org document status = %s, want active", got)
		}
	})

	t.Run("super admin sweeps everything", func(t *testing.T) {
		w := newTestWorld()
		a := w.addDoc("a.pdf", nil, models.StatusActive)
		w.docs.docs[a.ID].ExpireDate = &past
		b := w.addDoc("b.pdf", nil, models.StatusActive)
		w.docs.docs[b.ID].ExpireDate = &past
		w.docs.docs[b.ID].OrganizationID = 2
		svc := w.documentService(nil)

		result, err := svc.AutoArchiveExpired(ctx, superPrincipal())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.AffectedItems != 2 {
			t.Errorf("affected = %d, want 2", result.AffectedItems)
		}
		if w.docs.archiveExpiredOrg != nil {
			t.Errorf("sweep org = %v, want nil (unrestricted)", w.docs.archiveExpiredOrg)
		}
	})
}

func TestDocumentService_ListExpiringSoon(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()

	soon := w.addDoc("soon.pdf", nil, models.StatusActive)
	w.docs.docs[soon.ID].ExpireDate = ptr(testTime.AddDate(0, 0, 5))
	far := w.addDoc("far.pdf", nil, models.StatusActive)
	w.docs.docs[far.ID].ExpireDate = ptr(testTime.AddDate(0, 0, 90))
	w.addDoc("never.pdf", nil, models.StatusActive)

	svc := w.documentService(nil)

	docs, err := svc.ListExpiringSoon(ctx, alicePrincipal(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != soon.ID {
		t.Errorf("listed %d documents, want only id %d", len(docs), soon.ID)
	}

	for _, days := range []int{0, -1, 366} {
		if _, err := svc.ListExpiringSoon(ctx, alicePrincipal(), days); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("days=%d: expected validation error, got %v", days, err)
		}
	}
}

func TestDocumentService_ListExpired(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	past := testTime.Add(-time.Hour)

	expired := w.addDoc("expired.pdf", nil, models.StatusActive)
	w.docs.docs[expired.ID].ExpireDate = &past
	archived := w.addDoc("archived.pdf", nil, models.StatusArchived)
	w.docs.docs[archived.ID].ExpireDate = &past

	svc := w.documentService(nil)

	docs, err := svc.ListExpired(ctx, alicePrincipal(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != expired.ID {
		t.Errorf("listed %d documents, want only the active expired one", len(docs))
	}

	docs, err = svc.ListExpired(ctx, alicePrincipal(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("listed %d documents with include_archived, want 2", len(docs))
	}
}
