package palettes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/plugins/auth"
)

// Handler handles HTTP requests for palettes and image exports.
type Handler struct {
	service PaletteService
}

// NewHandler creates a new palettes handler.
func NewHandler(service PaletteService) *Handler {
	return &Handler{service: service}
}

// List returns the caller's palettes (GET /api/v1/palettes).
func (h *Handler) List(c echo.Context) error {
	out, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Create builds a palette from selected colors (POST /api/v1/palettes).
func (h *Handler) Create(c echo.Context) error {
	var req CreatePaletteRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), req.Name, req.ColorIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Delete removes a palette (DELETE /api/v1/palettes/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleFavorite flips the favorite flag (POST /api/v1/palettes/:id/favorite).
func (h *Handler) ToggleFavorite(c echo.Context) error {
	p, err := h.service.ToggleFavorite(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Image downloads a palette as PNG (GET /api/v1/palettes/:id/image.png).
func (h *Handler) Image(c echo.Context) error {
	data, err := h.service.Image(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return sendPNG(c, data, "palette.png")
}

// CollectionImage downloads every saved color as PNG
// (GET /api/v1/colors/image.png).
func (h *Handler) CollectionImage(c echo.Context) error {
	data, err := h.service.CollectionImage(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	return sendPNG(c, data, "color-palette.png")
}

func sendPNG(c echo.Context, data []byte, filename string) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "image/png", data)
}
