package colors

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/plugins/auth"
)

// RegisterRoutes mounts the color collection under /colors on the API
// group. Every route requires authentication.
func RegisterRoutes(api *echo.Group, h *Handler, authSvc auth.AuthService) {
	g := api.Group("/colors", auth.RequireAuth(authSvc))

	g.GET("", h.List)
	g.POST("", h.Add)
	g.DELETE("", h.Clear)
	g.POST("/batch", h.AddBatch)
	g.PATCH("/:id", h.Rename)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/favorite", h.ToggleFavorite)
	g.GET("/:id/code", h.Code)
}
