package palettes

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/plugins/auth"
)

// RegisterRoutes mounts palettes under /palettes on the API group, plus the
// collection image at /colors/image.png. Every route requires
// authentication.
func RegisterRoutes(api *echo.Group, h *Handler, authSvc auth.AuthService) {
	requireAuth := auth.RequireAuth(authSvc)

	g := api.Group("/palettes", requireAuth)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/favorite", h.ToggleFavorite)
	g.GET("/:id/image.png", h.Image)

	api.GET("/colors/image.png", h.CollectionImage, requireAuth)
}
