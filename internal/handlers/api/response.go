package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"funolympics/internal/dataset"
	"funolympics/internal/query"
	"funolympics/internal/views"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code. The
// request id lets a client report a failure that can be found in the logs.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":     "error",
		"error":      message,
		"request_id": requestid.FromContext(c),
	})
}

// jsonFailure writes err with the status its kind maps to.
func jsonFailure(c fiber.Ctx, err error) error {
	return jsonError(c, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, views.ErrUnknownView):
		return fiber.StatusNotFound
	case errors.Is(err, views.ErrInvalidSelection),
		errors.Is(err, views.ErrInvalidMetric),
		errors.Is(err, dataset.ErrUnknownColumn),
		errors.Is(err, query.ErrInvalidGroup),
		errors.Is(err, query.ErrInvalidOrder),
		errors.Is(err, query.ErrPivotShape):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
