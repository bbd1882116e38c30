package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/forms"
)

func newTestPostHandler(posts *stubPostService) *PostHandler {
	return NewPostHandler(posts, newTestConfirmer(newStubTempStore()), forms.NewValidator())
}

func TestPostHandler_Create_PreviewThenCommit(t *testing.T) {
	e := newTestEcho()
	posts := newStubPostService()
	handler := newTestPostHandler(posts)
	form := url.Values{"title": {"hello"}, "description": {"world"}, "_save": {"Confirm"}}

	c, rec := formContext(e, "/post/create", form, testAdmin, domainState("/post/create"))
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 preview, got %d", rec.Code)
	}
	var view formView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if view.State != "previewing" || !view.Readonly {
		t.Fatalf("expected read-only preview, got %+v", view)
	}
	if len(posts.created) != 0 {
		t.Fatalf("preview must not persist")
	}

	state := sessionAfter(c)
	if !state.ConfirmFlag {
		t.Fatalf("expected confirm flag after preview")
	}

	c, rec = formContext(e, "/post/create", form, testAdmin, state)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/posts" {
		t.Fatalf("expected redirect to /posts, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(posts.created) != 1 || posts.created[0].Title != "hello" {
		t.Fatalf("expected one created post, got %+v", posts.created)
	}
	if sessionAfter(c).ConfirmFlag {
		t.Fatalf("confirm flag must be cleared after commit")
	}
}

func TestPostHandler_Create_Invalid(t *testing.T) {
	e := newTestEcho()
	posts := newStubPostService()
	handler := newTestPostHandler(posts)

	c, rec := formContext(e, "/post/create", url.Values{"_save": {"Confirm"}}, testAdmin, domainState("/post/create"))
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var view formView
	_ = json.Unmarshal(rec.Body.Bytes(), &view)
	if view.Errors["title"] == "" || view.Errors["description"] == "" {
		t.Fatalf("expected title and description errors, got %+v", view.Errors)
	}
}

func TestPostHandler_Create_CancelRedirectsToForm(t *testing.T) {
	e := newTestEcho()
	posts := newStubPostService()
	handler := newTestPostHandler(posts)

	state := domainState("/post/create")
	state.ConfirmFlag = true
	c, rec := formContext(e, "/post/create", url.Values{"title": {"a"}, "description": {"b"}, "_cancel": {"Clear"}}, testAdmin, state)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/post/create" {
		t.Fatalf("expected redirect to the form, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if sessionAfter(c).ConfirmFlag || len(posts.created) != 0 {
		t.Fatalf("cancel must reset without persisting")
	}
}

func TestPostHandler_Update_AppliesStagedStatus(t *testing.T) {
	e := newTestEcho()
	posts := newStubPostService()
	posts.posts[4] = &domain.Post{ID: 4, Title: "old", Description: "old", Status: domain.PostPublished}
	handler := newTestPostHandler(posts)
	route := "/post/4/update"

	// Preview with the status checkbox unticked.
	c, rec := formContext(e, route, url.Values{"title": {"new"}, "description": {"desc"}, "_save": {"Confirm"}}, testAdmin, domainState(route))
	c.SetParamNames("id")
	c.SetParamValues("4")
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected preview, got %d", rec.Code)
	}

	// The confirm submission carries the checkbox again; the staged value wins.
	c, rec = formContext(e, route, url.Values{"title": {"new"}, "description": {"desc"}, "status": {"on"}, "_save": {"Confirm"}}, testAdmin, sessionAfter(c))
	c.SetParamNames("id")
	c.SetParamValues("4")
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected commit redirect, got %d", rec.Code)
	}
	got, ok := posts.updated[4]
	if !ok || got.Status || got.Title != "new" {
		t.Fatalf("expected unpublished update, got %+v", got)
	}
}

func TestPostHandler_Update_NotFound(t *testing.T) {
	e := newTestEcho()
	handler := newTestPostHandler(newStubPostService())

	c, _ := formContext(e, "/post/9/update", url.Values{"_save": {"Confirm"}}, testAdmin, domainState("/post/9/update"))
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := handler.Update(c); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostHandler_Detail_InvalidID(t *testing.T) {
	e := newTestEcho()
	handler := newTestPostHandler(newStubPostService())

	req := httptest.NewRequest(http.MethodGet, "/post/detail?post_id=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor_id", testAdmin.ID)

	err := handler.Detail(c)
	if err == nil {
		t.Fatalf("expected error for invalid id")
	}
	e.HTTPErrorHandler(err, c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostHandler_Delete_RedirectsToList(t *testing.T) {
	e := newTestEcho()
	posts := newStubPostService()
	posts.posts[3] = &domain.Post{ID: 3}
	handler := newTestPostHandler(posts)

	c, rec := formContext(e, "/post/delete?post_id=3", url.Values{}, testAdmin, domainState("/post/delete"))
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/posts" {
		t.Fatalf("expected redirect to /posts, got %d", rec.Code)
	}
	if len(posts.deleted) != 1 || posts.deleted[0] != 3 {
		t.Fatalf("expected post 3 deleted, got %v", posts.deleted)
	}
}

func TestPostHandler_List(t *testing.T) {
	e := newTestEcho()
	posts := newStubPostService()
	posts.posts[1] = &domain.Post{ID: 1, Title: "golang tips", Status: domain.PostPublished}
	posts.posts[2] = &domain.Post{ID: 2, Title: "cooking"}
	handler := newTestPostHandler(posts)

	req := httptest.NewRequest(http.MethodGet, "/posts?keyword=golang", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor_id", testAdmin.ID)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp listResponse[postListItem]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Meta.Total != 1 || resp.Items[0].Title != "golang tips" {
		t.Fatalf("unexpected list: %+v", resp)
	}
}

func TestPostHandler_Download(t *testing.T) {
	e := newTestEcho()
	posts := newStubPostService()
	posts.exportCSV = "id,title,description,status\n1,a,b,1\n"
	handler := newTestPostHandler(posts)

	req := httptest.NewRequest(http.MethodGet, "/post/list/download", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor_id", testAdmin.ID)

	if err := handler.Download(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "post_list.csv") {
		t.Fatalf("expected attachment header, got %q", rec.Header().Get("Content-Disposition"))
	}
	if rec.Body.String() != posts.exportCSV {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestPostHandler_RequiresActor(t *testing.T) {
	e := newTestEcho()
	handler := newTestPostHandler(newStubPostService())

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/posts", nil), httptest.NewRecorder())
	if err := handler.List(c); err == nil {
		t.Fatalf("expected unauthorized error without actor")
	}
}
