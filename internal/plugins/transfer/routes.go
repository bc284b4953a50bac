package transfer

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/keyxmakerx/devpalette/internal/plugins/auth"
)

// maxImportSize caps the import body.
const maxImportSize = "5M"

// RegisterRoutes mounts /export and /import on the API group. Both require
// authentication.
func RegisterRoutes(api *echo.Group, h *Handler, authSvc auth.AuthService) {
	requireAuth := auth.RequireAuth(authSvc)

	api.GET("/export", h.Export, requireAuth)
	api.POST("/import", h.Import, requireAuth, echomw.BodyLimit(maxImportSize))
}
