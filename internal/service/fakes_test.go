package service

// In-memory repository fakes. They emulate the storage contracts the
// services rely on, including the referential delete cascade between
// directories and documents.

import (
	"context"
	"fmt"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// fakeTxManager runs the function directly; atomicity is not under test.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error { return fn(ctx) }

func admits(scope models.Scope, orgID, deptID int64) bool {
	return scope.Admits(orgID, deptID)
}

func matchCond(cond repositories.StatusCond, s models.Status) bool {
	if cond.Equals != nil {
		return s == *cond.Equals
	}
	if cond.NotEquals != nil {
		return s != *cond.NotEquals
	}
	return true
}

func applyStatus(l *models.Lifecycle, status models.Status, field models.TimestampField, at time.Time) {
	l.Status = status
	switch field {
	case models.TimestampArchived:
		l.ArchivedAt = &at
	case models.TimestampTrashed:
		l.TrashedAt = &at
	case models.TimestampNone:
		l.ArchivedAt = nil
		l.TrashedAt = nil
	}
}

// fakeDirRepo keeps directories in a map. docs, when set, receives the
// delete cascade the way a foreign key would apply it.
type fakeDirRepo struct {
	seq  int64
	dirs map[int64]*models.Directory
	docs *fakeDocRepo
}

func newFakeDirRepo() *fakeDirRepo {
	return &fakeDirRepo{dirs: make(map[int64]*models.Directory)}
}

func (r *fakeDirRepo) add(d models.Directory) *models.Directory {
	r.seq++
	d.ID = r.seq
	r.dirs[d.ID] = &d
	return &d
}

func (r *fakeDirRepo) Create(ctx context.Context, d *models.Directory) error {
	r.seq++
	d.ID = r.seq
	copied := *d
	r.dirs[d.ID] = &copied
	return nil
}

func (r *fakeDirRepo) GetByID(ctx context.Context, id int64) (*models.Directory, error) {
	d, ok := r.dirs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("directory %d not found", id)}
	}
	copied := *d
	return &copied, nil
}

func (r *fakeDirRepo) ListByParent(ctx context.Context, parentID *int64, isDirectory bool, status models.Status, scope models.Scope) ([]models.Directory, error) {
	var out []models.Directory
	for _, d := range r.dirs {
		if d.IsDirectory != isDirectory || d.Status != status {
			continue
		}
		if (parentID == nil) != (d.ParentID == nil) {
			continue
		}
		if parentID != nil && *d.ParentID != *parentID {
			continue
		}
		if !admits(scope, d.OrganizationID, d.DepartmentID) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDirRepo) ListByStatus(ctx context.Context, status models.Status, scope models.Scope) ([]models.Directory, error) {
	var out []models.Directory
	for _, d := range r.dirs {
		if d.Status == status && admits(scope, d.OrganizationID, d.DepartmentID) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDirRepo) ListByIDs(ctx context.Context, ids []int64) ([]models.Directory, error) {
	var out []models.Directory
	for _, id := range ids {
		if d, ok := r.dirs[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDirRepo) ListChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error) {
	parents := make(map[int64]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []int64
	for _, d := range r.dirs {
		if d.ParentID != nil && parents[*d.ParentID] {
			out = append(out, d.ID)
		}
	}
	return out, nil
}

func (r *fakeDirRepo) Save(ctx context.Context, d *models.Directory) error {
	if _, ok := r.dirs[d.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("directory %d not found", d.ID)}
	}
	copied := *d
	r.dirs[d.ID] = &copied
	return nil
}

func (r *fakeDirRepo) UpdateStatusByIDs(ctx context.Context, ids []int64, cond repositories.StatusCond, status models.Status, field models.TimestampField, at time.Time) (int64, error) {
	var n int64
	for _, id := range ids {
		d, ok := r.dirs[id]
		if !ok || !matchCond(cond, d.Status) {
			continue
		}
		applyStatus(&d.Lifecycle, status, field, at)
		n++
	}
	return n, nil
}

func (r *fakeDirRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.dirs[id]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("directory %d not found", id)}
	}
	r.deleteSubtree(id)
	return nil
}

func (r *fakeDirRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.dirs[id]; ok {
			r.deleteSubtree(id)
			n++
		}
	}
	return n, nil
}

// deleteSubtree emulates ON DELETE CASCADE.
func (r *fakeDirRepo) deleteSubtree(id int64) {
	var children []int64
	for _, d := range r.dirs {
		if d.ParentID != nil && *d.ParentID == id {
			children = append(children, d.ID)
		}
	}
	for _, c := range children {
		r.deleteSubtree(c)
	}
	delete(r.dirs, id)
	if r.docs != nil {
		r.docs.deleteByDirectory(id)
	}
}

// fakeDocRepo keeps documents in a map.
type fakeDocRepo struct {
	seq  int64
	docs map[int64]*models.Document

	// last orgID handed to ArchiveExpired, for assertions
	archiveExpiredOrg *int64
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[int64]*models.Document)}
}

func (r *fakeDocRepo) add(d models.Document) *models.Document {
	r.seq++
	d.ID = r.seq
	r.docs[d.ID] = &d
	return &d
}

func (r *fakeDocRepo) deleteByDirectory(dirID int64) {
	for id, d := range r.docs {
		if d.DirectoryID != nil && *d.DirectoryID == dirID {
			delete(r.docs, id)
		}
	}
}

func (r *fakeDocRepo) Create(ctx context.Context, doc *models.Document) error {
	r.seq++
	doc.ID = r.seq
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocRepo) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
	}
	copied := *d
	return &copied, nil
}

func (r *fakeDocRepo) GetInfoByID(ctx context.Context, id int64) (*models.Document, error) {
	d, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Data = nil
	return d, nil
}

func (r *fakeDocRepo) ListByDirectory(ctx context.Context, directoryID *int64, status models.Status, scope models.Scope, filter repositories.DocumentFilter) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.docs {
		if d.Status != status {
			continue
		}
		if (directoryID == nil) != (d.DirectoryID == nil) {
			continue
		}
		if directoryID != nil && *d.DirectoryID != *directoryID {
			continue
		}
		if filter.FileType != nil && d.FileType != *filter.FileType {
			continue
		}
		if !admits(scope, d.OrganizationID, d.DepartmentID) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDocRepo) ListByStatus(ctx context.Context, status models.Status, scope models.Scope) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.docs {
		if d.Status == status && admits(scope, d.OrganizationID, d.DepartmentID) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) ListByIDs(ctx context.Context, ids []int64) ([]models.Document, error) {
	var out []models.Document
	for _, id := range ids {
		if d, ok := r.docs[id]; ok {
			copied := *d
			copied.Data = nil
			out = append(out, copied)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) ListExpired(ctx context.Context, now time.Time, includeArchived bool, scope models.Scope) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.docs {
		if d.ExpireDate == nil || !d.ExpireDate.Before(now) {
			continue
		}
		if d.Status != models.StatusActive && !(includeArchived && d.Status == models.StatusArchived) {
			continue
		}
		if !admits(scope, d.OrganizationID, d.DepartmentID) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDocRepo) ListExpiringSoon(ctx context.Context, now, before time.Time, scope models.Scope) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.docs {
		if d.Status != models.StatusActive || d.ExpireDate == nil {
			continue
		}
		if !d.ExpireDate.After(now) || d.ExpireDate.After(before) {
			continue
		}
		if !admits(scope, d.OrganizationID, d.DepartmentID) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDocRepo) Save(ctx context.Context, doc *models.Document) error {
	stored, ok := r.docs[doc.ID]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", doc.ID)}
	}
	copied := *doc
	copied.Data = stored.Data // Save never touches the payload
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocRepo) UpdateTotalPages(ctx context.Context, id int64, pages int) error {
	d, ok := r.docs[id]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
	}
	d.TotalPages = pages
	return nil
}

func (r *fakeDocRepo) UpdateStatusByIDs(ctx context.Context, ids []int64, cond repositories.StatusCond, status models.Status, field models.TimestampField, at time.Time) (int64, error) {
	var n int64
	for _, id := range ids {
		d, ok := r.docs[id]
		if !ok || !matchCond(cond, d.Status) {
			continue
		}
		applyStatus(&d.Lifecycle, status, field, at)
		n++
	}
	return n, nil
}

func (r *fakeDocRepo) UpdateStatusByDirectoryIDs(ctx context.Context, dirIDs []int64, status models.Status, field models.TimestampField, at time.Time) (int64, error) {
	dirs := make(map[int64]bool, len(dirIDs))
	for _, id := range dirIDs {
		dirs[id] = true
	}
	var n int64
	for _, d := range r.docs {
		if d.DirectoryID == nil || !dirs[*d.DirectoryID] {
			continue
		}
		applyStatus(&d.Lifecycle, status, field, at)
		n++
	}
	return n, nil
}

func (r *fakeDocRepo) ArchiveExpired(ctx context.Context, now time.Time, orgID *int64) (int64, error) {
	r.archiveExpiredOrg = orgID
	var n int64
	for _, d := range r.docs {
		if d.Status != models.StatusActive || d.ExpireDate == nil || !d.ExpireDate.Before(now) {
			continue
		}
		if orgID != nil && d.OrganizationID != *orgID {
			continue
		}
		applyStatus(&d.Lifecycle, models.StatusArchived, models.TimestampArchived, now)
		n++
	}
	return n, nil
}

func (r *fakeDocRepo) CountByDirectoryIDs(ctx context.Context, dirIDs []int64) (int64, error) {
	dirs := make(map[int64]bool, len(dirIDs))
	for _, id := range dirIDs {
		dirs[id] = true
	}
	var n int64
	for _, d := range r.docs {
		if d.DirectoryID != nil && dirs[*d.DirectoryID] {
			n++
		}
	}
	return n, nil
}

func (r *fakeDocRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.docs[id]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %d not found", id)}
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.docs[id]; ok {
			delete(r.docs, id)
			n++
		}
	}
	return n, nil
}

// fakeOrgRepo and fakeDeptRepo hold static tenant fixtures.
type fakeOrgRepo struct {
	orgs map[int64]*models.Organization
}

func newFakeOrgRepo(ids ...int64) *fakeOrgRepo {
	r := &fakeOrgRepo{orgs: make(map[int64]*models.Organization)}
	for _, id := range ids {
		r.orgs[id] = &models.Organization{ID: id, Name: fmt.Sprintf("org-%d", id), Code: fmt.Sprintf("ORG%d", id), Status: "active"}
	}
	return r
}

func (r *fakeOrgRepo) Create(ctx context.Context, org *models.Organization) error {
	org.ID = int64(len(r.orgs) + 1)
	r.orgs[org.ID] = org
	return nil
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	org, ok := r.orgs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "organization not found"}
	}
	return org, nil
}

func (r *fakeOrgRepo) GetByCode(ctx context.Context, code string) (*models.Organization, error) {
	for _, org := range r.orgs {
		if org.Code == code {
			return org, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "organization not found"}
}

func (r *fakeOrgRepo) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	for id := range r.orgs {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeDeptRepo struct {
	depts map[int64]*models.Department
}

func newFakeDeptRepo() *fakeDeptRepo {
	return &fakeDeptRepo{depts: make(map[int64]*models.Department)}
}

func (r *fakeDeptRepo) add(id, orgID int64) {
	r.depts[id] = &models.Department{ID: id, Name: fmt.Sprintf("dept-%d", id), Code: fmt.Sprintf("D%d", id), OrgID: orgID}
}

func (r *fakeDeptRepo) Create(ctx context.Context, dept *models.Department) error {
	dept.ID = int64(len(r.depts) + 1)
	r.depts[dept.ID] = dept
	return nil
}

func (r *fakeDeptRepo) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	d, ok := r.depts[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "department not found"}
	}
	return d, nil
}

func (r *fakeDeptRepo) GetByOrgAndCode(ctx context.Context, orgID int64, code string) (*models.Department, error) {
	for _, d := range r.depts {
		if d.OrgID == orgID && d.Code == code {
			return d, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "department not found"}
}

func (r *fakeDeptRepo) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	for id := range r.depts {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeDeptRepo) ListIDsByOrg(ctx context.Context, orgID int64) ([]int64, error) {
	var ids []int64
	for id, d := range r.depts {
		if d.OrgID == orgID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeUserRepo struct {
	users map[int64]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = int64(len(r.users) + 1)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "user not found"}
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "user not found"}
}

// fakeShareStore holds capabilities in a map.
type fakeShareStore struct {
	caps map[string]*models.ShareCapability
}

func newFakeShareStore() *fakeShareStore {
	return &fakeShareStore{caps: make(map[string]*models.ShareCapability)}
}

func (r *fakeShareStore) Put(ctx context.Context, cap *models.ShareCapability) error {
	copied := *cap
	r.caps[cap.Token] = &copied
	return nil
}

func (r *fakeShareStore) Get(ctx context.Context, token string) (*models.ShareCapability, error) {
	cap, ok := r.caps[token]
	if !ok {
		return nil, &domain.NotFoundError{Message: "share token not found"}
	}
	copied := *cap
	return &copied, nil
}

func (r *fakeShareStore) Delete(ctx context.Context, token string) error {
	delete(r.caps, token)
	return nil
}

var (
	_ repositories.DirectoryRepository    = (*fakeDirRepo)(nil)
	_ repositories.DocumentRepository     = (*fakeDocRepo)(nil)
	_ repositories.OrganizationRepository = (*fakeOrgRepo)(nil)
	_ repositories.DepartmentRepository   = (*fakeDeptRepo)(nil)
	_ repositories.UserRepository         = (*fakeUserRepo)(nil)
	_ repositories.ShareStore             = (*fakeShareStore)(nil)
	_ repositories.TransactionManager     = (fakeTxManager{})
)
