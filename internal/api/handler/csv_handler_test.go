package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/blogdesk/admin-api/internal/core/forms"
)

func multipartContext(e *echo.Echo, target string, fields map[string]string, fileField, fileName, content string) (echo.Context, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if fileField != "" {
		fw, _ := w.CreateFormFile(fileField, fileName)
		_, _ = io.WriteString(fw, content)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor_id", testAdmin.ID)
	c.Set("role", testAdmin.Role)
	c.Set("session_state", domainState(target))
	return c, rec
}

func TestCSVHandler_Import_Success(t *testing.T) {
	e := newTestEcho()
	posts := newStubPostService()
	var got string
	posts.importFn = func(r io.Reader) (int, error) {
		b, _ := io.ReadAll(r)
		got = string(b)
		return 2, nil
	}
	handler := NewCSVHandler(posts)

	csv := "title,description,status\na,b,1\nc,d,0\n"
	c, rec := multipartContext(e, "/csv/import", map[string]string{"_save": "Upload"}, "csv_file", "posts.csv", csv)
	if err := handler.Import(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/posts" {
		t.Fatalf("expected redirect to /posts, got %d", rec.Code)
	}
	if got != csv {
		t.Fatalf("service received %q", got)
	}
}

func TestCSVHandler_Import_MissingFile(t *testing.T) {
	e := newTestEcho()
	posts := newStubPostService()
	posts.importFn = func(io.Reader) (int, error) {
		t.Fatalf("should not be called")
		return 0, nil
	}
	handler := NewCSVHandler(posts)

	c, rec := multipartContext(e, "/csv/import", map[string]string{"_save": "Upload"}, "", "", "")
	if err := handler.Import(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var view formView
	_ = json.Unmarshal(rec.Body.Bytes(), &view)
	if view.Errors["csv_file"] != "Please choose a file" {
		t.Fatalf("unexpected errors: %+v", view.Errors)
	}
}

func TestCSVHandler_Import_MalformedRows(t *testing.T) {
	e := newTestEcho()
	posts := newStubPostService()
	posts.importFn = func(io.Reader) (int, error) {
		return 0, forms.CheckCSVRows(true, [][]string{{"only", "two"}})
	}
	handler := NewCSVHandler(posts)

	c, rec := multipartContext(e, "/csv/import", map[string]string{"_save": "Upload"}, "csv_file", "bad.csv", "only,two\n")
	if err := handler.Import(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var view formView
	_ = json.Unmarshal(rec.Body.Bytes(), &view)
	if view.Message != "Post upload csv must have 3 columns" {
		t.Fatalf("unexpected message: %q", view.Message)
	}
}

func TestCSVHandler_Import_Cancel(t *testing.T) {
	e := newTestEcho()
	handler := NewCSVHandler(newStubPostService())

	c, rec := multipartContext(e, "/csv/import", map[string]string{"_cancel": "Clear"}, "", "", "")
	if err := handler.Import(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/posts" {
		t.Fatalf("expected redirect to /posts, got %d", rec.Code)
	}
}
