package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
	"github.com/blogdesk/admin-api/internal/core/service"
)

// ---------------------------------------------------------------------------
// Stub services
// ---------------------------------------------------------------------------

type stubAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (string, *domain.User, error)
	signUpFn func(ctx context.Context, in ports.SignUpInput) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) SignUp(ctx context.Context, in ports.SignUpInput) (string, *domain.User, error) {
	return s.signUpFn(ctx, in)
}

type stubPostService struct {
	created   []ports.PostInput
	updated   map[uint]ports.PostInput
	deleted   []uint
	posts     map[uint]*domain.Post
	importFn  func(r io.Reader) (int, error)
	exportCSV string
}

func newStubPostService() *stubPostService {
	return &stubPostService{updated: make(map[uint]ports.PostInput), posts: make(map[uint]*domain.Post)}
}

func (s *stubPostService) CreatePost(_ context.Context, _ domain.Actor, in ports.PostInput) (*domain.Post, error) {
	s.created = append(s.created, in)
	return &domain.Post{ID: uint(len(s.created)), Title: in.Title, Description: in.Description}, nil
}

func (s *stubPostService) UpdatePost(_ context.Context, _ domain.Actor, id uint, in ports.PostInput) (*domain.Post, error) {
	if _, ok := s.posts[id]; !ok {
		return nil, domain.ErrPostNotFound
	}
	s.updated[id] = in
	return s.posts[id], nil
}

func (s *stubPostService) SoftDeletePost(_ context.Context, _ domain.Actor, id uint) error {
	if _, ok := s.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubPostService) GetPost(_ context.Context, _ domain.Actor, id uint) (*ports.PostDetail, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &ports.PostDetail{Post: *p, CreatedUserName: "admin@example.com"}, nil
}

func (s *stubPostService) ListPosts(_ context.Context, _ domain.Actor, in ports.ListPostsInput) (*ports.ListPostsResult, error) {
	res := &ports.ListPostsResult{Page: 1, Limit: 5}
	for _, p := range s.posts {
		if in.Keyword != "" && !strings.Contains(p.Title, in.Keyword) {
			continue
		}
		res.Items = append(res.Items, ports.PostSummary{ID: p.ID, Title: p.Title, Status: p.Status})
	}
	res.Total = int64(len(res.Items))
	res.TotalPages = 1
	return res, nil
}

func (s *stubPostService) ExportCSV(_ context.Context, _ domain.Actor, w io.Writer) error {
	_, err := io.WriteString(w, s.exportCSV)
	return err
}

func (s *stubPostService) ImportCSV(_ context.Context, _ domain.Actor, r io.Reader) (int, error) {
	return s.importFn(r)
}

type stubUserService struct {
	users       map[uint]*domain.User
	created     []ports.UserInput
	passwordErr error
	checkErr    error
	changed     uint
}

func newStubUserService() *stubUserService {
	return &stubUserService{users: make(map[uint]*domain.User)}
}

func (s *stubUserService) CreateUser(_ context.Context, _ domain.Actor, in ports.UserInput) (*domain.User, error) {
	s.created = append(s.created, in)
	return &domain.User{ID: uint(100 + len(s.created)), Name: in.Name, Email: in.Email, Profile: in.Profile}, nil
}

func (s *stubUserService) UpdateUser(_ context.Context, _ domain.Actor, id uint, in ports.UserInput) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name = in.Name
	if in.Profile != "" {
		u.Profile = in.Profile
	}
	return u, nil
}

func (s *stubUserService) CheckUser(context.Context, domain.Actor, uint, ports.UserInput) error {
	return s.checkErr
}

func (s *stubUserService) SoftDeleteUser(_ context.Context, _ domain.Actor, id uint) error {
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *stubUserService) GetUser(_ context.Context, _ domain.Actor, id uint) (*ports.UserDetail, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &ports.UserDetail{User: *u, Role: domain.RoleLabel(u.Type), ProfileURL: u.ProfileURL()}, nil
}

func (s *stubUserService) ListUsers(_ context.Context, _ domain.Actor, _ ports.ListUsersInput) (*ports.ListUsersResult, error) {
	res := &ports.ListUsersResult{Page: 1, Limit: 5, TotalPages: 1}
	for _, u := range s.users {
		res.Items = append(res.Items, ports.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: domain.RoleLabel(u.Type)})
	}
	res.Total = int64(len(res.Items))
	return res, nil
}

func (s *stubUserService) ChangePassword(_ context.Context, userID uint, _, _ string) error {
	if s.passwordErr != nil {
		return s.passwordErr
	}
	s.changed = userID
	return nil
}

// ---------------------------------------------------------------------------
// Stub stores
// ---------------------------------------------------------------------------

type stubTempStore struct {
	staged    map[string][]byte
	permanent map[string][]byte
	discarded []string
}

func newStubTempStore() *stubTempStore {
	return &stubTempStore{staged: make(map[string][]byte), permanent: make(map[string][]byte)}
}

func (s *stubTempStore) Stage(_ context.Context, name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	p := "temp/" + name
	s.staged[p] = b
	return p, nil
}

func (s *stubTempStore) Promote(_ context.Context, stagedPath string) (string, error) {
	b, ok := s.staged[stagedPath]
	if !ok {
		return "", domain.ErrStagedFileMissing
	}
	name := strings.TrimPrefix(stagedPath, "temp/")
	s.permanent[name] = b
	delete(s.staged, stagedPath)
	return name, nil
}

func (s *stubTempStore) Discard(_ context.Context, stagedPath string) error {
	s.discarded = append(s.discarded, stagedPath)
	delete(s.staged, stagedPath)
	return nil
}

type stubSessionStore struct {
	states  map[string]domain.SessionState
	deleted []string
}

func (s *stubSessionStore) Load(_ context.Context, sid string) (domain.SessionState, error) {
	return s.states[sid], nil
}

func (s *stubSessionStore) Save(context.Context, string, domain.SessionState) error { return nil }

func (s *stubSessionStore) Delete(_ context.Context, sid string) error {
	s.deleted = append(s.deleted, sid)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	testAdmin  = domain.Actor{ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin}
	testMember = domain.Actor{ID: 2, Email: "member@example.com", Role: domain.RoleUser}
)

func newTestConfirmer(temp *stubTempStore) *service.Confirmer {
	return service.NewConfirmer(temp, zerolog.Nop())
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator(forms.NewValidator())
	return e
}

// formContext builds an authenticated form POST carrying the given session state.
func formContext(e *echo.Echo, target string, form url.Values, actor domain.Actor, state domain.SessionState) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor_id", actor.ID)
	c.Set("email", actor.Email)
	c.Set("role", actor.Role)
	c.Set("session_state", state)
	return c, rec
}

func sessionAfter(c echo.Context) domain.SessionState {
	return ctxSession(c)
}

func domainState(route string) domain.SessionState {
	return domain.SessionState{LastRouteKey: route}
}
