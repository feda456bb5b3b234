package api

import (
	"github.com/gofiber/fiber/v3"

	"funolympics/internal/db"
	"funolympics/internal/validation"
)

const defaultExportLimit = 20

// ExportHandler serves the export log kept in the usage store.
type ExportHandler struct {
	db *db.DB
}

// NewExportHandler creates a new export log handler.
func NewExportHandler(database *db.DB) *ExportHandler {
	return &ExportHandler{db: database}
}

// List returns the most recent exports, optionally for one view.
func (h *ExportHandler) List(c fiber.Ctx) error {
	view := c.Query("view")
	if view != "" && !validation.ValidateViewName(view) {
		return jsonError(c, fiber.StatusBadRequest, "invalid view name")
	}
	limit := validation.ClampLimit(fiber.Query[int](c, "limit"), defaultExportLimit)

	exports, err := h.db.ListExports(c.Context(), view, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to list exports")
	}
	return jsonSuccess(c, exports)
}
