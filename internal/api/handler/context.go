package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogdesk/admin-api/internal/core/domain"
)

// ctxActor extracts the identity injected by the Auth middleware.
// A zero actor id means the middleware did not run or the token carried no subject.
func ctxActor(c echo.Context) (domain.Actor, error) {
	id, _ := c.Get("actor_id").(uint)
	if id == 0 {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	return domain.Actor{ID: id, Email: email, Role: role}, nil
}

// ctxSession returns the workflow state loaded by the Session middleware.
func ctxSession(c echo.Context) domain.SessionState {
	state, _ := c.Get("session_state").(domain.SessionState)
	return state
}

// setSession hands the next workflow state back to the Session middleware for saving.
func setSession(c echo.Context, state domain.SessionState) {
	c.Set("session_state", state)
}

// sessionSaver returns the Session middleware's immediate save, nil outside it.
func sessionSaver(c echo.Context) func(context.Context, domain.SessionState) error {
	save, _ := c.Get("session_save").(func(context.Context, domain.SessionState) error)
	return save
}

// routeKey identifies the logical form a request belongs to.
func routeKey(c echo.Context) string {
	return c.Request().URL.Path
}
