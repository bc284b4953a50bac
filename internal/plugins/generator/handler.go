package generator

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/apperror"
)

// Handler serves the public generator endpoints.
type Handler struct {
	service GeneratorService
}

// NewHandler creates a new generator handler.
func NewHandler(service GeneratorService) *Handler {
	return &Handler{service: service}
}

// Variations handles GET /api/v1/generate/variations?base=.
func (h *Handler) Variations(c echo.Context) error {
	out, err := h.service.Variations(c.QueryParam("base"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Harmony handles GET /api/v1/generate/harmony?base=.
func (h *Handler) Harmony(c echo.Context) error {
	out, err := h.service.Harmony(c.QueryParam("base"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Contrast handles GET /api/v1/generate/contrast?hex=.
func (h *Handler) Contrast(c echo.Context) error {
	out, err := h.service.Contrast(c.QueryParam("hex"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Convert handles GET /api/v1/generate/convert?hex=.
func (h *Handler) Convert(c echo.Context) error {
	out, err := h.service.Convert(c.QueryParam("hex"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Combine handles POST /api/v1/generate/combine.
func (h *Handler) Combine(c echo.Context) error {
	var req CombineRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	out, err := h.service.Combine(req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
