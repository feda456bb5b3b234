package middleware

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"funolympics/internal/models"
)

func newAuthApp(enabled bool) *fiber.App {
	auth := NewAuthMiddleware(enabled)

	app := fiber.New()
	app.Use(session.New())

	app.Post("/login", func(c fiber.Ctx) error {
		StoreUser(session.FromContext(c), &models.User{Sub: "sub-1", Name: "Ada"})
		return c.SendString("ok")
	})
	app.Get("/private", auth.RequireAuth, func(c fiber.Ctx) error {
		if user := CurrentUser(c); user != nil {
			return c.SendString(user.DisplayName())
		}
		return c.SendString("anonymous")
	})
	app.Get("/public", auth.OptionalAuth, func(c fiber.Ctx) error {
		if user := CurrentUser(c); user != nil {
			return c.SendString(user.Sub)
		}
		return c.SendString("anonymous")
	})
	return app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestRequireAuth_Disabled(t *testing.T) {
	app := newAuthApp(false)

	req, _ := http.NewRequest("GET", "/private", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := readBody(t, resp); got != "anonymous" {
		t.Errorf("body = %q, want anonymous", got)
	}
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	app := newAuthApp(true)

	req, _ := http.NewRequest("GET", "/private?x=1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/auth/login" {
		t.Errorf("Location = %q, want /auth/login", loc)
	}
}

func TestRequireAuth_LoadsUserFromSession(t *testing.T) {
	app := newAuthApp(true)

	req, _ := http.NewRequest("POST", "/login", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("login: no session cookie returned")
	}

	for _, path := range []string{"/private", "/public"} {
		req, _ := http.NewRequest("GET", path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s failed: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, resp.StatusCode)
		}
		want := "Ada"
		if path == "/public" {
			want = "sub-1"
		}
		if got := readBody(t, resp); got != want {
			t.Errorf("%s body = %q, want %q", path, got, want)
		}
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	app := newAuthApp(true)

	req, _ := http.NewRequest("GET", "/public", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := readBody(t, resp); got != "anonymous" {
		t.Errorf("body = %q, want anonymous", got)
	}
}

func TestRequireAuthAPI(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		want    int
	}{
		{"disabled passes", false, fiber.StatusOK},
		{"anonymous rejected", true, fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := NewAuthMiddleware(tt.enabled)
			app := fiber.New()
			app.Use(session.New())
			app.Get("/api/ping", auth.RequireAuthAPI, func(c fiber.Ctx) error {
				return c.SendString("pong")
			})

			req, _ := http.NewRequest("GET", "/api/ping", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
