package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/blogdesk/admin-api/internal/api/metrics"
	"github.com/blogdesk/admin-api/internal/core/flow"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/service"
)

// Submit buttons of the confirmation screens.
const (
	fieldSave   = "_save"
	fieldCancel = "_cancel"
)

// intentOf reads which submit button was pressed.
func intentOf(c echo.Context) flow.Intent {
	params, err := c.FormParams()
	if err != nil {
		return flow.IntentNone
	}
	if _, ok := params[fieldSave]; ok {
		return flow.IntentCommit
	}
	if _, ok := params[fieldCancel]; ok {
		return flow.IntentCancel
	}
	return flow.IntentNone
}

// checkbox reports whether an HTML checkbox was ticked.
func checkbox(c echo.Context, name string) bool {
	switch c.FormValue(name) {
	case "on", "1", "true", "True":
		return true
	default:
		return false
	}
}

// formUpload opens the optional file field. Files larger than maxBytes are
// reported on errs and ignored. The returned close func is never nil.
func formUpload(c echo.Context, field string, maxBytes int64, errs *forms.Errors) (*service.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		errs.Add(field, fmt.Sprintf("%s must be at most %d MB", field, maxBytes>>20))
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open upload: %w", err)
	}
	return &service.Upload{Name: fh.Filename, Body: f}, func() { _ = f.Close() }, nil
}

// renderForm answers a GET on a confirmation screen.
func renderForm(c echo.Context, form string, values any) error {
	state := flow.StateOf(ctxSession(c), routeKey(c))
	return c.JSON(http.StatusOK, formView{
		Form:     form,
		State:    state.String(),
		Readonly: state == flow.Previewing,
		Values:   values,
	})
}

// renderInvalid re-renders an editable form with its errors.
func renderInvalid(c echo.Context, form string, values any, errs forms.Errors) error {
	return c.JSON(http.StatusUnprocessableEntity, formView{
		Form:    form,
		State:   flow.Editing.String(),
		Values:  values,
		Errors:  errs.Fields,
		Message: errs.Global,
	})
}

// respond turns a confirmation result into the HTTP answer. success is where
// the client goes after a commit.
func respond(c echo.Context, form string, res service.ConfirmResult, values any, success string) error {
	metrics.FlowOutcomesTotal.WithLabelValues(form, res.Outcome.String()).Inc()

	switch res.Outcome {
	case flow.OutcomeInvalid:
		return renderInvalid(c, form, values, res.Errors)
	case flow.OutcomePreview:
		return c.JSON(http.StatusOK, formView{
			Form:     form,
			State:    flow.Previewing.String(),
			Readonly: true,
			Values:   values,
		})
	case flow.OutcomeCommit:
		return c.Redirect(http.StatusSeeOther, success)
	default:
		return c.Redirect(http.StatusSeeOther, routeKey(c))
	}
}

func parseID(raw, name string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
