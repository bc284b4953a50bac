package colors

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/plugins/auth"
)

// Handler handles HTTP requests for the saved color collection.
type Handler struct {
	service ColorService
}

// NewHandler creates a new colors handler.
func NewHandler(service ColorService) *Handler {
	return &Handler{service: service}
}

// List returns the caller's colors (GET /api/v1/colors?q=&favorites=).
func (h *Handler) List(c echo.Context) error {
	opts := ListOptions{Query: c.QueryParam("q")}
	if v := c.QueryParam("favorites"); v != "" {
		fav, err := strconv.ParseBool(v)
		if err != nil {
			return apperror.NewBadRequest("favorites must be true or false")
		}
		opts.FavoritesOnly = fav
	}

	colors, err := h.service.List(c.Request().Context(), auth.GetUserID(c), opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, colors)
}

// Add saves one color from a hex value (POST /api/v1/colors).
func (h *Handler) Add(c echo.Context) error {
	var req AddColorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	color, err := h.service.Add(c.Request().Context(), auth.GetUserID(c), req.Name, req.Hex)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, NewColorView(*color))
}

// AddBatch saves generated colors (POST /api/v1/colors/batch).
func (h *Handler) AddBatch(c echo.Context) error {
	var req AddColorsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	saved, err := h.service.AddBatch(c.Request().Context(), auth.GetUserID(c), req.Colors)
	if err != nil {
		return err
	}
	views := make([]ColorView, len(saved))
	for i, s := range saved {
		views[i] = NewColorView(s)
	}
	return c.JSON(http.StatusCreated, views)
}

// Rename changes a color's name (PATCH /api/v1/colors/:id).
func (h *Handler) Rename(c echo.Context) error {
	var req RenameColorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	color, err := h.service.Rename(c.Request().Context(), auth.GetUserID(c), c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NewColorView(*color))
}

// ToggleFavorite flips the favorite flag (POST /api/v1/colors/:id/favorite).
func (h *Handler) ToggleFavorite(c echo.Context) error {
	color, err := h.service.ToggleFavorite(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NewColorView(*color))
}

// Delete removes one color (DELETE /api/v1/colors/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear removes every color (DELETE /api/v1/colors).
func (h *Handler) Clear(c echo.Context) error {
	if err := h.service.Clear(c.Request().Context(), auth.GetUserID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Code renders a color code (GET /api/v1/colors/:id/code?format=&var=).
// Unknown formats fall back to uppercase hex.
func (h *Handler) Code(c echo.Context) error {
	format, _ := colorutil.ParseFormat(c.QueryParam("format"))

	result, err := h.service.Code(c.Request().Context(), auth.GetUserID(c), c.Param("id"), format, c.QueryParam("var"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// bindAndValidate binds the JSON body into req and runs the registered
// validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	return c.Validate(req)
}
