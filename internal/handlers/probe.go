package handlers

import (
	"github.com/gofiber/fiber/v3"

	"funolympics/internal/dataset"
	"funolympics/internal/db"
)

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	ds *dataset.Dataset
	db *db.DB
}

// NewProbeHandler creates a new probe handler. database may be nil when no
// usage store is configured.
func NewProbeHandler(ds *dataset.Dataset, database *db.DB) *ProbeHandler {
	return &ProbeHandler{ds: ds, db: database}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK once the dataset is loaded and the usage store, if any, is reachable.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if h.ds == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "dataset not loaded",
		})
	}

	if h.db != nil {
		if err := h.db.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "error",
				"error":  "database unavailable",
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"records":   h.ds.Len(),
		"loaded_at": h.ds.LoadedAt(),
	})
}
