package api

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/blogdesk/admin-api/internal/api/handler"
	"github.com/blogdesk/admin-api/internal/api/middleware"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
	"github.com/blogdesk/admin-api/internal/core/service"
	"github.com/blogdesk/admin-api/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Posts     ports.PostService
	Users     ports.UserService
	Auth      ports.AuthService
	Sessions  ports.SessionStore
	Confirmer *service.Confirmer
	Validator *forms.Validator
	Media     *handler.MediaHandler
	Checks    []handlers.Check

	JWTSecret     string
	TokenTTL      time.Duration
	MaxUploadMB   int64
	SecureCookies bool
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator(deps.Validator)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dM", deps.MaxUploadMB+1)))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions, deps.Confirmer, deps.Validator, handler.CookieConfig{
		TTL:    deps.TokenTTL,
		Secure: deps.SecureCookies,
	})
	postHandler := handler.NewPostHandler(deps.Posts, deps.Confirmer, deps.Validator)
	csvHandler := handler.NewCSVHandler(deps.Posts)
	userHandler := handler.NewUserHandler(deps.Users, deps.Confirmer, deps.Validator, deps.MaxUploadMB<<20)

	signedIn := []echo.MiddlewareFunc{
		middleware.Auth(deps.JWTSecret),
		middleware.Session(middleware.SessionConfig{
			Store:     deps.Sessions,
			Discarder: deps.Confirmer,
			Secure:    deps.SecureCookies,
			Logger:    deps.Logger,
		}),
	}
	adminOnly := append(append([]echo.MiddlewareFunc{}, signedIn...), middleware.AdminOnly())

	// --- Auth routes ---
	e.POST("/accounts/login", authHandler.Login)
	e.POST("/accounts/register", authHandler.Register)
	e.POST("/accounts/logout", authHandler.Logout)
	e.GET("/password/change", userHandler.PasswordForm, signedIn...)
	e.POST("/password/change", userHandler.ChangePassword, signedIn...)

	// --- Post routes ---
	e.GET("/posts", postHandler.List, signedIn...)
	e.POST("/posts", postHandler.List, signedIn...)
	e.GET("/post/detail", postHandler.Detail, signedIn...)
	e.GET("/post/create", postHandler.CreateForm, signedIn...)
	e.POST("/post/create", postHandler.Create, signedIn...)
	e.GET("/post/:id/update", postHandler.UpdateForm, signedIn...)
	e.POST("/post/:id/update", postHandler.Update, signedIn...)
	e.POST("/post/delete", postHandler.Delete, signedIn...)
	e.GET("/post/list/download", postHandler.Download, signedIn...)
	e.GET("/csv/import", csvHandler.ImportForm, signedIn...)
	e.POST("/csv/import", csvHandler.Import, signedIn...)

	// --- User routes ---
	e.GET("/users", userHandler.List, signedIn...)
	e.POST("/users", userHandler.List, signedIn...)
	e.GET("/user/detail", userHandler.Detail, signedIn...)
	e.GET("/user/profile", userHandler.Profile, signedIn...)
	e.GET("/user/create", userHandler.CreateForm, adminOnly...)
	e.POST("/user/create", userHandler.Create, adminOnly...)
	e.GET("/user/:id/update", userHandler.UpdateForm, signedIn...)
	e.POST("/user/:id/update", userHandler.Update, signedIn...)
	e.POST("/user/delete", userHandler.Delete, adminOnly...)

	// --- Media ---
	if deps.Media != nil {
		e.GET("/media/*", deps.Media.Serve)
	}

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// requestLogger feeds Echo's request log into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
