package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/session"

	"funolympics/internal/config"
)

// TestEncryptedSelectionRoundTrip replays encrypted session cookies across
// requests the way a browser does while switching between views.
func TestEncryptedSelectionRoundTrip(t *testing.T) {
	app := fiber.New()
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: deriveEncryptionKey("test-secret-that-is-long-enough-for-production"),
	}))
	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	app.Post("/select", func(c fiber.Ctx) error {
		session.FromContext(c).Set("selection", c.Query("sport"))
		return c.SendString("ok")
	})
	app.Get("/selected", func(c fiber.Ctx) error {
		val, _ := session.FromContext(c).Get("selection").(string)
		return c.SendString(val)
	})

	resp, err := app.Test(mustRequest(t, "POST", "/select?sport=Rowing", nil))
	if err != nil {
		t.Fatalf("select request failed: %v", err)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie returned")
	}
	for _, c := range cookies {
		if strings.Contains(c.Value, "Rowing") {
			t.Errorf("cookie %s leaks the selection in clear text", c.Name)
		}
	}

	for i := 0; i < 2; i++ {
		resp, err := app.Test(mustRequest(t, "GET", "/selected", cookies))
		if err != nil {
			t.Fatalf("replay %d failed: %v", i, err)
		}
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != 200 || string(body) != "Rowing" {
			t.Fatalf("replay %d = %d %q, want 200 \"Rowing\"", i, resp.StatusCode, body)
		}
		if next := resp.Cookies(); len(next) > 0 {
			cookies = next
		}
	}
}

func TestDeriveEncryptionKey(t *testing.T) {
	a := deriveEncryptionKey("secret-one")
	if a != deriveEncryptionKey("secret-one") {
		t.Error("key derivation is not deterministic")
	}
	if a == deriveEncryptionKey("secret-two") {
		t.Error("different secrets produced the same key")
	}
	// base64 of 32 bytes
	if len(a) != 44 {
		t.Errorf("len(key) = %d, want 44", len(a))
	}
}

func TestBuildTLSConfig(t *testing.T) {
	t.Run("without CA", func(t *testing.T) {
		tc, err := buildTLSConfig(&config.Config{})
		if err != nil {
			t.Fatal(err)
		}
		if tc.ClientCAs != nil {
			t.Error("ClientCAs set without a CA file")
		}
	})

	t.Run("missing CA file", func(t *testing.T) {
		_, err := buildTLSConfig(&config.Config{TLSCAFile: filepath.Join(t.TempDir(), "ca.pem")})
		if err == nil {
			t.Error("expected an error for a missing CA file")
		}
	})

	t.Run("unparseable CA file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ca.pem")
		if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := buildTLSConfig(&config.Config{TLSCAFile: path})
		if err == nil {
			t.Error("expected an error for a bad CA file")
		}
	})
}

func mustRequest(t *testing.T, method, target string, cookies []*http.Cookie) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}
