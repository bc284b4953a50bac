package transfer

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/plugins/auth"
)

// Handler handles export and import requests.
type Handler struct {
	service TransferService
}

// NewHandler creates a new transfer handler.
func NewHandler(service TransferService) *Handler {
	return &Handler{service: service}
}

// Export downloads both collections (GET /api/v1/export).
func (h *Handler) Export(c echo.Context) error {
	data, err := h.service.Export(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+ExportFilename+`"`)
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

// Import replaces the collections present in the uploaded document
// (POST /api/v1/import). The body is the raw export file.
func (h *Handler) Import(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperror.NewBadRequest("could not read import file")
	}

	result, err := h.service.Import(c.Request().Context(), auth.GetUserID(c), data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
