package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_InFlightSettles(t *testing.T) {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(Middleware())
	app.Get("/ok", func(c fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/missing", func(c fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("handler blew up")
	})

	before := promtest.ToFloat64(Metrics.RequestsInFlight)

	tests := []struct {
		target string
		status int
	}{
		{"/ok", fiber.StatusOK},
		{"/missing", fiber.StatusNotFound},
		{"/panic", fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.target, nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := promtest.ToFloat64(Metrics.RequestsInFlight); got != before {
				t.Errorf("in-flight gauge = %v after %s, want %v", got, tt.target, before)
			}
		})
	}
}

func TestRecordExport(t *testing.T) {
	counter := Metrics.Exports.WithLabelValues("gender", "xlsx")
	before := promtest.ToFloat64(counter)

	RecordExport("gender", "xlsx")

	if got := promtest.ToFloat64(counter); got != before+1 {
		t.Errorf("exports counter = %v, want %v", got, before+1)
	}
}
