package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/filedrive/filedrive/internal/model"
	"github.com/filedrive/filedrive/internal/repository"
)

// In-memory fakes for the repository and blob store interfaces. Error
// injection fields let tests force individual calls to fail.

type fakeUserRepo struct {
	mu      sync.Mutex
	byToken map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byToken: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byToken[user.ExternalToken]; ok {
		return repository.ErrDuplicateToken
	}
	clone := *user
	r.byToken[user.ExternalToken] = &clone
	return nil
}

func (r *fakeUserRepo) ByID(id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byToken {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) ByExternalToken(token string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byToken[token]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	clone.Memberships = append([]model.OrgMembership(nil), u.Memberships...)
	return &clone, nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byToken[user.ExternalToken]
	if !ok {
		return repository.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.Image = user.Image
	return nil
}

func (r *fakeUserRepo) AddMembership(userID, orgID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byToken {
		if u.ID != userID {
			continue
		}
		if u.Membership(orgID) != nil {
			return repository.ErrDuplicateMembership
		}
		u.Memberships = append(u.Memberships, model.OrgMembership{OrgID: orgID, Role: role, CreatedAt: time.Now()})
		return nil
	}
	return repository.ErrUserNotFound
}

func (r *fakeUserRepo) SetRole(userID, orgID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byToken {
		if u.ID != userID {
			continue
		}
		m := u.Membership(orgID)
		if m == nil {
			return repository.ErrUserNotFound
		}
		m.Role = role
		return nil
	}
	return repository.ErrUserNotFound
}

type fakeFileRepo struct {
	mu        sync.Mutex
	files     map[string]*model.File
	createErr error
	listErr   error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*model.File)}
}

func (r *fakeFileRepo) put(file *model.File) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *file
	r.files[file.ID] = &clone
}

func (r *fakeFileRepo) get(id string) *model.File {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil
	}
	clone := *f
	return &clone
}

func (r *fakeFileRepo) Create(file *model.File) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.OrgID == file.OrgID && f.Name == file.Name && !f.ShouldDelete {
			return repository.ErrDuplicateName
		}
	}
	clone := *file
	r.files[file.ID] = &clone
	return nil
}

func (r *fakeFileRepo) ByID(id string) (*model.File, error) {
	f := r.get(id)
	if f == nil {
		return nil, repository.ErrFileNotFound
	}
	return f, nil
}

func (r *fakeFileRepo) List(orgID string, filter repository.FileListFilter) ([]*model.File, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.File
	for _, f := range r.files {
		if f.OrgID != orgID || f.ShouldDelete != filter.Deleted {
			continue
		}
		if filter.Type != "" && f.Type != filter.Type {
			continue
		}
		clone := *f
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeFileRepo) MarkDeleted(id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || f.ShouldDelete {
		return false, nil
	}
	f.ShouldDelete = true
	f.DeletedAt = &at
	return true, nil
}

func (r *fakeFileRepo) Restore(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || !f.ShouldDelete {
		return false, nil
	}
	f.ShouldDelete = false
	f.DeletedAt = nil
	return true, nil
}

func (r *fakeFileRepo) ListExpired(cutoff time.Time) ([]*model.File, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.File
	for _, f := range r.files {
		if f.ShouldDelete && f.DeletedAt != nil && !f.DeletedAt.After(cutoff) {
			clone := *f
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.Before(*out[j].DeletedAt) })
	return out, nil
}

func (r *fakeFileRepo) Purge(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || !f.ShouldDelete {
		return false, nil
	}
	delete(r.files, id)
	return true, nil
}

type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[string]*model.Favorite
	createErr error
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[string]*model.Favorite)}
}

func (r *fakeFavoriteRepo) Create(favorite *model.Favorite) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *favorite
	r.favorites[favorite.ID] = &clone
	return nil
}

func (r *fakeFavoriteRepo) ByUserOrgFile(userID, orgID, fileID string) (*model.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.favorites {
		if f.UserID == userID && f.OrgID == orgID && f.FileID == fileID {
			clone := *f
			return &clone, nil
		}
	}
	return nil, repository.ErrFavoriteNotFound
}

func (r *fakeFavoriteRepo) ListByUserOrg(userID, orgID string) ([]*model.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Favorite
	for _, f := range r.favorites {
		if f.UserID == userID && f.OrgID == orgID {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeFavoriteRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favorites, id)
	return nil
}

func (r *fakeFavoriteRepo) DeleteByFile(fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, f := range r.favorites {
		if f.FileID == fileID {
			delete(r.favorites, id)
		}
	}
	return nil
}

func (r *fakeFavoriteRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.favorites)
}

var errBlobBackend = errors.New("blob backend unreachable")

type fakeBlobStore struct {
	mu         sync.Mutex
	blobs      map[string]bool
	deletes    map[string]int
	existsErr  error
	deleteErrs map[string]error
	handleSeq  int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		blobs:      make(map[string]bool),
		deletes:    make(map[string]int),
		deleteErrs: make(map[string]error),
	}
}

func (s *fakeBlobStore) GenerateUploadHandle(ctx context.Context) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handleSeq++
	ref := "blobs/fake-" + string(rune('a'+s.handleSeq))
	return ref, "https://blobs.example.com/upload/" + ref, nil
}

func (s *fakeBlobStore) Exists(ctx context.Context, ref string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.blobs[ref], nil
}

func (s *fakeBlobStore) DisplayURL(ctx context.Context, ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.blobs[ref] {
		return "", nil
	}
	return "https://blobs.example.com/display/" + ref, nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deleteErrs[ref]; err != nil {
		return err
	}
	s.deletes[ref]++
	delete(s.blobs, ref)
	return nil
}

func (s *fakeBlobStore) deleteCount(ref string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes[ref]
}
