package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/blogdesk/admin-api/internal/api/metrics"
	"github.com/blogdesk/admin-api/internal/api/middleware"
	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

const (
	formLogin  = "login"
	formSignUp = "sign_up"
)

// CookieConfig controls the identity cookie.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionStore
	discarder   middleware.Discarder
	validator   *forms.Validator
	cookie      CookieConfig
}

// NewAuthHandler builds an AuthHandler; discarder removes uploads still staged at logout.
func NewAuthHandler(authService ports.AuthService, sessions ports.SessionStore, discarder middleware.Discarder, validator *forms.Validator, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, discarder: discarder, validator: validator, cookie: cookie}
}

// Login authenticates a user, sets the token cookie and returns the token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forms.LoginForm  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  formView
// @Router       /accounts/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req forms.LoginForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if errs := h.validator.Validate(&req); !errs.OK() {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return renderInvalid(c, formLogin, map[string]string{"email": req.Email}, errs)
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailNotFound):
			metrics.LoginsTotal.WithLabelValues("unknown_email").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.ErrEmailNotFound.Error()})
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.ErrInvalidCredentials.Error()})
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	h.setToken(c, token)
	return c.JSON(http.StatusOK, authResponse{Token: token, User: userToDetail(user)})
}

// Register creates a User-role account and signs it in.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forms.SignUpForm  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      422   {object}  formView
// @Router       /accounts/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req forms.SignUpForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	values := map[string]string{"name": req.Name, "email": req.Email}
	if errs := h.validator.Validate(&req); !errs.OK() {
		return renderInvalid(c, formSignUp, values, errs)
	}

	token, user, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, domain.ErrUserExists) {
		var errs forms.Errors
		errs.Add("email", domain.ErrUserExists.Error())
		return renderInvalid(c, formSignUp, values, errs)
	}
	if err != nil {
		return err
	}

	h.setToken(c, token)
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: userToDetail(user)})
}

// Logout clears the identity cookie and drops the workflow state of the
// session together with any upload it still had staged.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /accounts/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sid, err := c.Cookie(middleware.SessionCookie); err == nil && sid.Value != "" {
		ctx := c.Request().Context()
		state, err := h.sessions.Load(ctx, sid.Value)
		if err != nil {
			return err
		}
		if state.PendingProfilePath != "" {
			h.discarder.Discard(ctx, []string{state.PendingProfilePath})
		}
		if err := h.sessions.Delete(ctx, sid.Value); err != nil {
			return err
		}
	}

	c.SetCookie(&http.Cookie{Name: middleware.TokenCookie, Path: "/", MaxAge: -1, HttpOnly: true, Secure: h.cookie.Secure, SameSite: http.SameSiteLaxMode})
	c.SetCookie(&http.Cookie{Name: middleware.SessionCookie, Path: "/", MaxAge: -1, HttpOnly: true, Secure: h.cookie.Secure, SameSite: http.SameSiteLaxMode})
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) setToken(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.TTL),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
