package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/blogdesk/admin-api/internal/api/metrics"
	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/flow"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

// SessionCookie carries the id of the server-side workflow state.
const SessionCookie = "sid"

// Discarder removes staged uploads that a route change orphaned.
type Discarder interface {
	Discard(ctx context.Context, paths []string)
}

// SessionConfig wires the Session middleware.
type SessionConfig struct {
	Store     ports.SessionStore
	Discarder Discarder
	Secure    bool
	Logger    zerolog.Logger
}

// Session loads the workflow state of the browser session, resets it when the
// request targets a different route than the one that staged it, and saves
// whatever state the handler leaves in context. Handlers that must persist the
// state before acting on it call the func stored under "session_save".
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			sid := sessionID(c, cfg.Secure)

			state, err := cfg.Store.Load(ctx, sid)
			if err != nil {
				cfg.Logger.Error().Err(err).Str("sid", sid).Msg("failed to load session")
				return err
			}

			route := c.Request().URL.Path
			entered, discard := flow.Enter(state, route)
			if state.ConfirmFlag && !entered.ConfirmFlag {
				metrics.FlowResetsTotal.Inc()
				cfg.Logger.Info().Str("route", route).Str("previous", state.LastRouteKey).Msg("pending confirmation reset")
			}
			if len(discard) > 0 {
				metrics.UploadsDiscardedTotal.Add(float64(len(discard)))
				cfg.Discarder.Discard(ctx, discard)
			}
			c.Set("session_state", entered)

			saved := state
			c.Set("session_save", func(ctx context.Context, s domain.SessionState) error {
				if err := cfg.Store.Save(ctx, sid, s); err != nil {
					return fmt.Errorf("save session: %w", err)
				}
				saved = s
				return nil
			})

			herr := next(c)

			final, _ := c.Get("session_state").(domain.SessionState)
			if final != saved {
				if err := cfg.Store.Save(ctx, sid, final); err != nil {
					cfg.Logger.Error().Err(err).Str("sid", sid).Msg("failed to save session")
					if herr == nil {
						herr = err
					}
				}
			}
			return herr
		}
	}
}

func sessionID(c echo.Context, secure bool) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}

	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}
