package generator

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the generator under /generate on the API group.
// These routes need no session.
func RegisterRoutes(api *echo.Group, h *Handler) {
	g := api.Group("/generate")

	g.GET("/variations", h.Variations)
	g.GET("/harmony", h.Harmony)
	g.GET("/contrast", h.Contrast)
	g.GET("/convert", h.Convert)
	g.POST("/combine", h.Combine)
}
