package api

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"funolympics/internal/dataset"
	"funolympics/internal/models"
	"funolympics/internal/testutil"
	"funolympics/internal/views"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	ds, err := dataset.Load(testutil.WriteCSV(t, testutil.Header, testutil.SampleRows))
	if err != nil {
		t.Fatalf("dataset.Load() error = %v", err)
	}
	h := NewDashboardHandler(views.NewService(ds, []string{"Request", "Rating", "Feedback"}, nil))

	app := fiber.New()
	app.Get("/api/options", h.Options)
	app.Get("/api/views", h.Views)
	app.Get("/api/views/:view", h.View)
	app.Get("/api/views/:view/countries", h.Countries)
	app.Post("/api/query", h.Query)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	raw, _ := io.ReadAll(resp.Body)

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("%s %s: body is not JSON: %s", method, target, raw)
	}
	return resp.StatusCode, env
}

func TestOptions(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, "GET", "/api/options", "")
	if status != fiber.StatusOK || env.Status != "ok" {
		t.Fatalf("status = %d (%s), want 200 ok", status, env.Status)
	}

	var got models.OptionsResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	if want := []string{"North America", "Europe", "Africa"}; !reflect.DeepEqual(got.Continents, want) {
		t.Errorf("Continents = %v, want %v", got.Continents, want)
	}
	if want := []string{"January", "February"}; !reflect.DeepEqual(got.Months, want) {
		t.Errorf("Months = %v, want %v", got.Months, want)
	}
	if got.Records != len(testutil.SampleRows) {
		t.Errorf("Records = %d, want %d", got.Records, len(testutil.SampleRows))
	}
}

func TestViews(t *testing.T) {
	app := newTestApp(t)

	_, env := do(t, app, "GET", "/api/views", "")
	var got []models.ViewSummary
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 7 || got[0].Name != views.Home {
		t.Fatalf("Views() = %+v, want 7 views starting with home", got)
	}
}

func TestView(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name      string
		target    string
		wantSel   map[string]string
		wantRows  []models.QueryRow
		wantTotal int
	}{
		{
			name:      "defaults are first options",
			target:    "/api/views/gender",
			wantSel:   map[string]string{"continent": "North America", "gender": "Male", "sport": "Swimming"},
			wantRows:  []models.QueryRow{{Keys: []string{"USA"}, Count: 2}},
			wantTotal: 2,
		},
		{
			name:      "explicit selection",
			target:    "/api/views/gender?continent=Europe&gender=Male&sport=Athletics",
			wantSel:   map[string]string{"continent": "Europe", "gender": "Male", "sport": "Athletics"},
			wantRows:  []models.QueryRow{{Keys: []string{"France"}, Count: 1}},
			wantTotal: 1,
		},
		{
			name:    "empty result",
			target:  "/api/views/gender?continent=Africa&gender=Female&sport=Swimming",
			wantSel: map[string]string{"continent": "Africa", "gender": "Female", "sport": "Swimming"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, "GET", tt.target, "")
			if status != fiber.StatusOK {
				t.Fatalf("status = %d (%s), want 200", status, env.Error)
			}
			var got models.ViewResponse
			if err := json.Unmarshal(env.Data, &got); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got.Selection, tt.wantSel) {
				t.Errorf("Selection = %v, want %v", got.Selection, tt.wantSel)
			}
			if got.Result == nil {
				t.Fatal("Result is nil")
			}
			if len(tt.wantRows) == 0 {
				if !got.Empty || len(got.Result.Rows) != 0 {
					t.Errorf("expected empty result, got %+v", got.Result.Rows)
				}
				return
			}
			if !reflect.DeepEqual(got.Result.Rows, tt.wantRows) {
				t.Errorf("Rows = %+v, want %+v", got.Result.Rows, tt.wantRows)
			}
			if got.Result.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", got.Result.Total, tt.wantTotal)
			}
		})
	}
}

func TestView_Concurrent(t *testing.T) {
	app := newTestApp(t)

	_, env := do(t, app, "GET", "/api/views/concurrent?month=January", "")
	var got models.ViewResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Result == nil || got.Result.Matrix == nil {
		t.Fatalf("expected a pivoted result, got %+v", got.Result)
	}
	if want := []string{"Athletics", "Swimming"}; !reflect.DeepEqual(got.Result.Matrix.Rows, want) {
		t.Errorf("Matrix.Rows = %v, want %v", got.Result.Matrix.Rows, want)
	}
	if !strings.Contains(string(env.Data), `"cells":[[null,1,2],[2,1,null]]`) {
		t.Errorf("missing cells must be null: %s", env.Data)
	}
}

func TestView_Errors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"unknown view", "/api/views/nope", fiber.StatusNotFound},
		{"malformed view name", "/api/views/Gender", fiber.StatusNotFound},
		{"invalid gender", "/api/views/gender?gender=Other", fiber.StatusBadRequest},
		{"invalid metric", "/api/views/viewer-engagement?metric=Country", fiber.StatusBadRequest},
		{"control characters", "/api/views/gender?sport=%00", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, "GET", tt.target, "")
			if status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
			if env.Status != "error" || env.Error == "" {
				t.Errorf("envelope = %+v, want an error", env)
			}
		})
	}
}

func TestCountries(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, "GET", "/api/views/preferences/countries?continent=Europe&country=USA", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d (%s)", status, env.Error)
	}
	var got models.CascadeResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	want := models.CascadeResponse{
		Continent: "Europe",
		Country:   "France",
		Countries: []string{"France", "Germany"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Countries() = %+v, want %+v", got, want)
	}

	if status, _ := do(t, app, "GET", "/api/views/gender/countries?continent=Europe", ""); status != fiber.StatusNotFound {
		t.Errorf("gender countries status = %d, want 404", status)
	}
}

func TestQuery(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, "POST", "/api/query",
		`{"filters":{"Continent":"Europe"},"group_by":["Country"],"order":"count_desc"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d (%s)", status, env.Error)
	}
	var got models.QueryResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	want := []models.QueryRow{
		{Keys: []string{"France"}, Count: 2},
		{Keys: []string{"Germany"}, Count: 2},
	}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("Rows = %+v, want %+v", got.Rows, want)
	}
	if got.CountColumn != "Viewership" || got.Total != 4 {
		t.Errorf("CountColumn = %q, Total = %d", got.CountColumn, got.Total)
	}
}

func TestQuery_Errors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"group_by":`},
		{"no group", `{"filters":{"Month":"January"}}`},
		{"unknown group column", `{"group_by":["Stadium"]}`},
		{"unknown filter column", `{"filters":{"Stadium":"X"},"group_by":["Country"]}`},
		{"pivot needs two columns", `{"group_by":["Country"],"pivot":true}`},
		{"bad order", `{"group_by":["Country"],"order":"sideways"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, "POST", "/api/query", tt.body)
			if status != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", status, env.Error)
			}
		})
	}
}
