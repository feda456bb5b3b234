package handlers

import (
	"errors"
	"html"

	"github.com/gofiber/fiber/v3"

	"funolympics/internal/chart"
	"funolympics/internal/query"
	"funolympics/internal/views"
)

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message string) error {
	return c.SendString(
		`<div class="alert alert-error">` + html.EscapeString(message) + `</div>`,
	)
}

// viewError maps view and query errors to HTTP errors for the error page.
func viewError(err error) error {
	switch {
	case errors.Is(err, views.ErrUnknownView):
		return fiber.NewError(fiber.StatusNotFound, "view not found")
	case errors.Is(err, views.ErrInvalidSelection),
		errors.Is(err, views.ErrInvalidMetric),
		errors.Is(err, query.ErrUnknownColumn):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, chart.ErrUnsupportedKind):
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "this view cannot be rendered as an image")
	}
	return err
}
