package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v3"

	"funolympics/internal/models"
	"funolympics/internal/testutil"
)

func TestExportHandler_List(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	for _, rec := range []models.ExportRecord{
		{View: "gender", Format: models.FormatXLSX, Selection: map[string]string{"gender": "Male"}, Rows: 2},
		{View: "gender", Format: models.FormatPNG, Rows: 2},
		{View: "concurrent", Format: models.FormatXLSX, Rows: 4},
	} {
		if err := database.RecordExport(ctx, &rec); err != nil {
			t.Fatalf("RecordExport() error = %v", err)
		}
	}

	h := NewExportHandler(database)
	app := fiber.New()
	app.Get("/api/exports", h.List)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCount  int
	}{
		{"all", "/api/exports", 200, 3},
		{"one view", "/api/exports?view=gender", 200, 2},
		{"limited", "/api/exports?limit=1", 200, 1},
		{"bad view", "/api/exports?view=Gender!", 400, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, "GET", tt.target, "")
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", status, tt.wantStatus, env.Error)
			}
			if tt.wantStatus != 200 {
				return
			}
			var got []models.ExportRecord
			if err := json.Unmarshal(env.Data, &got); err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.wantCount {
				t.Errorf("got %d exports, want %d", len(got), tt.wantCount)
			}
		})
	}
}
