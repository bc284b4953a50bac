package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/database"
	"github.com/keyxmakerx/devpalette/internal/middleware"
	"github.com/keyxmakerx/devpalette/internal/plugins/auth"
	"github.com/keyxmakerx/devpalette/internal/plugins/colors"
	"github.com/keyxmakerx/devpalette/internal/plugins/generator"
	"github.com/keyxmakerx/devpalette/internal/plugins/palettes"
	"github.com/keyxmakerx/devpalette/internal/plugins/transfer"
	"github.com/keyxmakerx/devpalette/internal/templates/layouts"
	"github.com/keyxmakerx/devpalette/internal/templates/pages"
)

// healthTimeout bounds the dependency checks behind /healthz.
const healthTimeout = 3 * time.Second

// RegisterRoutes sets up all application routes. It registers public routes
// directly and delegates to each plugin's route registration function.
//
// This is the single place where all routes are aggregated. When a new
// plugin is added, its routes are registered here.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Services ---

	authSvc := auth.NewAuthService(
		auth.NewUserRepository(a.DB),
		a.Redis,
		a.Store,
		a.Locks,
		a.Mailer,
		auth.ServiceConfig{
			KeyPrefix:    a.Config.Redis.KeyPrefix,
			SessionTTL:   a.Config.Auth.SessionTTL,
			ResetCodeTTL: a.Config.Auth.ResetCodeTTL,
			ChallengeTTL: a.Config.Auth.ChallengeTTL,
			Issuer:       a.Config.Auth.Issuer,
		},
	)

	colorRepo := colors.NewColorRepository(a.Store)
	paletteRepo := palettes.NewPaletteRepository(a.Store)
	colorSvc := colors.NewColorService(colorRepo, a.Locks)
	paletteSvc := palettes.NewPaletteService(paletteRepo, colorSvc, a.Locks)

	var archiver transfer.Archiver
	if a.Config.Archive.IsConfigured() {
		archiver = transfer.NewS3Archiver(a.Config.Archive)
		slog.Info("export archiving enabled", slog.String("bucket", a.Config.Archive.Bucket))
	}
	transferSvc := transfer.NewTransferService(a.Store, a.Locks, archiver)

	// Templates read the signed-in user from context.Context.
	middleware.LayoutInjector = func(c echo.Context, ctx context.Context) context.Context {
		ctx = layouts.SetActivePath(ctx, c.Request().URL.Path)
		if session := auth.GetSession(c); session != nil {
			ctx = layouts.SetIsAuthenticated(ctx, true)
			ctx = layouts.SetUserName(ctx, session.Name)
		}
		return ctx
	}

	// --- Public Routes (no auth required) ---

	// Landing page with a sample variation strip.
	e.GET("/", func(c echo.Context) error {
		base := c.QueryParam("base")
		if _, err := colorutil.ParseHex(base); err != nil {
			base = pages.DefaultBase
		}
		return middleware.Render(c, http.StatusOK, pages.Landing(base))
	}, auth.OptionalAuth(authSvc))

	// Health check endpoint for container orchestration.
	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()
		if err := database.Health(ctx, a.DB, a.Redis); err != nil {
			slog.Warn("health check failed", slog.Any("error", err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/metrics", middleware.MetricsHandler())

	// --- API Routes ---
	api := e.Group("/api/v1")

	auth.RegisterRoutes(api, auth.NewHandler(authSvc, a.Config.Auth.SessionTTL, a.Config.IsProduction()), authSvc)
	generator.RegisterRoutes(api, generator.NewHandler(generator.NewGeneratorService()))
	colors.RegisterRoutes(api, colors.NewHandler(colorSvc), authSvc)
	palettes.RegisterRoutes(api, palettes.NewHandler(paletteSvc), authSvc)
	transfer.RegisterRoutes(api, transfer.NewHandler(transferSvc), authSvc)
}
