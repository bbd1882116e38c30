package handler

import (
	"context"
	"net/http"
	"path"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// MediaURLer resolves a stored key to a downloadable URL.
type MediaURLer interface {
	URL(ctx context.Context, key string) (string, error)
}

// MediaHandler serves GET /media/* from local disk or redirects to remote storage.
type MediaHandler struct {
	dir    string
	remote MediaURLer
}

func NewLocalMediaHandler(dir string) *MediaHandler {
	return &MediaHandler{dir: dir}
}

func NewRemoteMediaHandler(remote MediaURLer) *MediaHandler {
	return &MediaHandler{remote: remote}
}

func (h *MediaHandler) Serve(c echo.Context) error {
	key := path.Base(path.Clean("/" + c.Param("*")))
	if key == "/" || key == "." {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}

	if h.remote != nil {
		url, err := h.remote.URL(c.Request().Context(), key)
		if err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, url)
	}
	return c.File(filepath.Join(h.dir, key))
}
