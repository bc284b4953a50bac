// Package app is the application bootstrap and dependency injection root.
// It creates and holds all shared infrastructure (DB pool, Redis client,
// key-value store, mailer, Echo instance) and wires together all plugins.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/config"
	"github.com/keyxmakerx/devpalette/internal/kvstore"
	"github.com/keyxmakerx/devpalette/internal/mail"
	"github.com/keyxmakerx/devpalette/internal/middleware"
	"github.com/keyxmakerx/devpalette/internal/plugins/auth"
	"github.com/keyxmakerx/devpalette/internal/templates/pages"
)

// maxBodySize caps request bodies. Profile pictures arrive as base64 data
// URLs of up to 5 MB decoded, so the limit sits above that.
const maxBodySize = "8M"

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// DB is the MariaDB connection pool holding user accounts.
	DB *sql.DB

	// Redis is shared by sessions, login challenges and the key-value store.
	Redis redis.UniversalClient

	// Store holds the per-user color and palette collections.
	Store kvstore.Store

	// Locks serializes writes to a collection across plugins.
	Locks *kvstore.Locker

	// Mailer delivers password reset codes.
	Mailer mail.Mailer

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling.
func New(cfg *config.Config, db *sql.DB, rdb redis.UniversalClient) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// c.RealIP() must return the client address behind Docker networking,
	// since rate limiting keys on it.
	middleware.TrustedProxies(e, middleware.DefaultTrustedProxies)

	e.Validator = middleware.NewRequestValidator()

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Store:  kvstore.NewRedisStore(rdb, cfg.Redis.KeyPrefix),
		Locks:  kvstore.NewLocker(),
		Mailer: mail.New(cfg.Mail, cfg.IsDevelopment()),
		Echo:   e,
	}

	// Register global middleware in order of execution.
	app.setupMiddleware()

	// Register the custom error handler that maps AppErrors to HTTP responses.
	e.HTTPErrorHandler = app.errorHandler

	return app
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first, innermost (CSRF) runs last.
func (a *App) setupMiddleware() {
	// Panic recovery -- must be outermost to catch panics from all other middleware.
	a.Echo.Use(middleware.Recovery())

	// Request logging -- log every request with method, path, status, latency.
	a.Echo.Use(middleware.RequestLogger())

	// Prometheus request counters and latency histograms.
	a.Echo.Use(middleware.Metrics())

	// Security headers -- CSP, X-Frame-Options, X-Content-Type-Options, etc.
	a.Echo.Use(middleware.SecurityHeaders())

	// CORS -- let a front end on the configured base URL call the API with
	// the session cookie.
	a.Echo.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   []string{a.Config.BaseURL},
		AllowCredentials: true,
	}))

	a.Echo.Use(echomw.BodyLimit(maxBodySize))

	// CSRF -- double-submit cookie on cookie-authenticated mutations.
	a.Echo.Use(middleware.CSRF(auth.SessionCookieName))
}

// errorHandler is the custom Echo error handler. It maps domain errors
// (AppError) to HTTP responses: JSON for API requests, an HTML error page
// for everything else.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred"

	// Check if it's our domain error type.
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message

		// Log internal errors with the underlying cause.
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	} else {
		// Check for Echo's built-in HTTP errors (e.g., 404 from router).
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			code = echoErr.Code
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			} else {
				message = defaultErrorMessage(code)
			}
		} else {
			// Truly unexpected error -- log it.
			slog.Error("unhandled error",
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
			)
		}
	}

	// API requests always get JSON.
	if middleware.IsAPIRequest(c) {
		if err := c.JSON(code, map[string]string{
			"error":   http.StatusText(code),
			"message": message,
		}); err != nil {
			slog.Warn("failed to write error response", slog.Any("error", err))
		}
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if err := middleware.Render(c, code, pages.ErrorPage(code, message)); err != nil {
		slog.Warn("failed to render error page", slog.Any("error", err))
	}
}

// defaultErrorMessage returns a user-friendly message for common HTTP status codes
// when no specific message was provided by the error.
func defaultErrorMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "The request was invalid or cannot be processed."
	case http.StatusUnauthorized:
		return "You need to sign in to do that."
	case http.StatusForbidden:
		return "You don't have permission to access this resource."
	case http.StatusNotFound:
		return "The page you're looking for doesn't exist or has been moved."
	case http.StatusMethodNotAllowed:
		return "This action is not allowed."
	case http.StatusRequestEntityTooLarge:
		return "The upload is too large."
	case http.StatusTooManyRequests:
		return "You're making too many requests. Please slow down."
	case http.StatusServiceUnavailable:
		return "The service is temporarily unavailable. Please try again later."
	default:
		return "An unexpected error occurred."
	}
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting DevPalette server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
