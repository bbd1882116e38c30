package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogdesk/admin-api/internal/api/metrics"
	"github.com/blogdesk/admin-api/internal/core/flow"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

const formCSVImport = "csv_import"

// CSVHandler handles the bulk post import screen. The import commits on the
// first submission; there is no preview step.
type CSVHandler struct {
	posts ports.PostService
}

func NewCSVHandler(posts ports.PostService) *CSVHandler {
	return &CSVHandler{posts: posts}
}

func (h *CSVHandler) ImportForm(c echo.Context) error {
	return c.JSON(http.StatusOK, formView{Form: formCSVImport, State: flow.Editing.String()})
}

// Import creates one post per data row of the uploaded file, or none.
//
// @Summary      Import posts from CSV
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Param        csv_file  formData  file  true  "title,description,status rows"
// @Success      303
// @Failure      422  {object}  formView
// @Router       /csv/import [post]
func (h *CSVHandler) Import(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if intentOf(c) == flow.IntentCancel {
		return c.Redirect(http.StatusSeeOther, postListURL)
	}

	fh, err := c.FormFile("csv_file")
	if err != nil {
		metrics.CSVImportsTotal.WithLabelValues("invalid").Inc()
		return renderInvalid(c, formCSVImport, nil, forms.CheckCSVRows(false, nil))
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := h.posts.ImportCSV(c.Request().Context(), actor, f)
	if err != nil {
		var fe forms.Errors
		if errors.As(err, &fe) {
			metrics.CSVImportsTotal.WithLabelValues("invalid").Inc()
			return renderInvalid(c, formCSVImport, nil, fe)
		}
		metrics.CSVImportsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.CSVImportsTotal.WithLabelValues("ok").Inc()
	metrics.PostsCreatedTotal.WithLabelValues("csv").Add(float64(n))
	return c.Redirect(http.StatusSeeOther, postListURL)
}
