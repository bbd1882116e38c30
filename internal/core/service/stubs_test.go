package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubPostRepo struct {
	rows      map[uint]*domain.Post
	nextID    uint
	createErr error
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{rows: make(map[uint]*domain.Post), nextID: 1}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	if r.createErr != nil {
		return r.createErr
	}
	p.ID = r.nextID
	r.nextID++
	r.rows[p.ID] = clonePost(p)
	return nil
}

func (r *stubPostRepo) CreateMany(ctx context.Context, posts []*domain.Post) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, p := range posts {
		_ = r.Create(ctx, p)
	}
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id uint) (*domain.Post, error) {
	p, ok := r.rows[id]
	if !ok || p.IsDeleted() {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post) error {
	if _, ok := r.rows[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	r.rows[p.ID] = clonePost(p)
	return nil
}

func (r *stubPostRepo) SoftDelete(_ context.Context, id, actorID uint, at time.Time) error {
	p, ok := r.rows[id]
	if !ok || p.IsDeleted() {
		return domain.ErrPostNotFound
	}
	p.DeletedUserID = &actorID
	p.DeletedAt = &at
	return nil
}

// List applies the same filters the real repositories use.
func (r *stubPostRepo) List(_ context.Context, f ports.PostFilter) ([]*domain.Post, int64, error) {
	var matched []*domain.Post
	for _, p := range r.rows {
		if p.IsDeleted() {
			continue
		}
		if f.CreatedUserID != 0 && p.CreatedUserID != f.CreatedUserID {
			continue
		}
		if f.Keyword != "" {
			kw := strings.ToLower(f.Keyword)
			if !strings.Contains(strings.ToLower(p.Title), kw) && !strings.Contains(strings.ToLower(p.Description), kw) {
				continue
			}
		}
		matched = append(matched, clonePost(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Post{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

type stubUserRepo struct {
	rows   map[uint]*domain.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{rows: make(map[uint]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// seed inserts u directly, bypassing services.
func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	u.ID = r.nextID
	r.nextID++
	r.rows[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrUserExists
		}
	}
	r.seed(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := r.rows[id]
	if !ok || u.IsDeleted() {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.rows {
		if strings.EqualFold(u.Email, email) && !u.IsDeleted() {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.rows[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.rows[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id, actorID uint, at time.Time) error {
	u, ok := r.rows[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.DeletedUserID = &actorID
	u.DeletedAt = &at
	return nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	var matched []*domain.User
	for _, u := range r.rows {
		if u.IsDeleted() {
			continue
		}
		if f.CreatedUserID != 0 && (u.CreatedUserID == nil || *u.CreatedUserID != f.CreatedUserID) {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Email != "" && !strings.Contains(strings.ToLower(u.Email), strings.ToLower(f.Email)) {
			continue
		}
		if f.CreatedFrom != nil && u.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && !u.CreatedAt.Before(*f.CreatedTo) {
			continue
		}
		matched = append(matched, cloneUser(u))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

// ---------------------------------------------------------------------------
// In-memory staging area
// ---------------------------------------------------------------------------

type stubTempStore struct {
	staged     map[string][]byte
	permanent  map[string][]byte
	discarded  []string
	promoteErr error
}

func newStubTempStore() *stubTempStore {
	return &stubTempStore{staged: make(map[string][]byte), permanent: make(map[string][]byte)}
}

func (s *stubTempStore) Stage(_ context.Context, name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "temp/" + name
	s.staged[path] = b
	return path, nil
}

func (s *stubTempStore) Promote(_ context.Context, path string) (string, error) {
	if s.promoteErr != nil {
		return "", s.promoteErr
	}
	b, ok := s.staged[path]
	if !ok {
		return "", domain.ErrStagedFileMissing
	}
	delete(s.staged, path)
	name := strings.TrimPrefix(path, "temp/")
	s.permanent[name] = b
	return name, nil
}

func (s *stubTempStore) Discard(_ context.Context, path string) error {
	s.discarded = append(s.discarded, path)
	delete(s.staged, path)
	return nil
}

func newTestHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func upload(name, body string) *Upload {
	return &Upload{Name: name, Body: bytes.NewBufferString(body)}
}

var errBoom = errors.New("boom")

var (
	admin    = domain.Actor{ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin}
	member   = domain.Actor{ID: 2, Email: "member@example.com", Role: domain.RoleUser}
	outsider = domain.Actor{ID: 3, Email: "other@example.com", Role: domain.RoleUser}
)
