package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/rs/zerolog"
)

func TestNewRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	Logger = zerolog.New(&buf)
	defer func() { Logger = prev }()

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(NewRequestLogger())
	app.Get("/ok", func(c fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c fiber.Ctx) error { return fiber.ErrNotFound })

	tests := []struct {
		path   string
		status int
		level  string
	}{
		{"/ok", 200, "info"},
		{"/missing", 404, "warn"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			req, _ := http.NewRequest("GET", tt.path, nil)
			if _, err := app.Test(req); err != nil {
				t.Fatalf("request failed: %v", err)
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("log line is not JSON: %q", buf.String())
			}
			if entry["path"] != tt.path {
				t.Errorf("path = %v, want %s", entry["path"], tt.path)
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("status = %v, want %d", entry["status"], tt.status)
			}
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if id, _ := entry["request_id"].(string); id == "" {
				t.Error("request_id missing")
			}
		})
	}
}

func TestInitLogger_BadLevelFallsBack(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	InitLogger("shouting", "test")
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("GlobalLevel() = %v, want info", got)
	}
}
