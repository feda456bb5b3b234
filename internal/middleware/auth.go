package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"funolympics/internal/models"
)

// Session keys shared with the OIDC handlers.
const (
	SessionUserSub       = "user_sub"
	SessionUserEmail     = "user_email"
	SessionUserName      = "user_name"
	SessionUserPicture   = "user_picture"
	SessionRedirectAfter = "redirect_after_login"
)

// AuthMiddleware handles user authentication via sessions. When login is not
// configured every request passes through anonymously.
type AuthMiddleware struct {
	enabled bool
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(enabled bool) *AuthMiddleware {
	return &AuthMiddleware{enabled: enabled}
}

// RequireAuth ensures the user is authenticated, redirecting to /auth/login
// and remembering the requested URL if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	user := userFromSession(sess)
	if user == nil {
		sess.Set(SessionRedirectAfter, c.OriginalURL())
		return c.Redirect().To("/auth/login")
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireAuthAPI is RequireAuth for JSON routes: anonymous requests get 401
// instead of a redirect.
func (m *AuthMiddleware) RequireAuthAPI(c fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}
	if sess := session.FromContext(c); sess != nil {
		if user := userFromSession(sess); user != nil {
			c.Locals("user", user)
			return c.Next()
		}
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  "authentication required",
	})
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}
	if sess := session.FromContext(c); sess != nil {
		if user := userFromSession(sess); user != nil {
			c.Locals("user", user)
		}
	}
	return c.Next()
}

// CurrentUser returns the user loaded by RequireAuth or OptionalAuth, or nil.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// StoreUser writes the user's claims to the session.
func StoreUser(sess *session.Middleware, user *models.User) {
	sess.Set(SessionUserSub, user.Sub)
	sess.Set(SessionUserEmail, user.Email)
	sess.Set(SessionUserName, user.Name)
	sess.Set(SessionUserPicture, user.Picture)
}

func userFromSession(sess *session.Middleware) *models.User {
	sub, _ := sess.Get(SessionUserSub).(string)
	if sub == "" {
		return nil
	}
	user := &models.User{Sub: sub}
	user.Email, _ = sess.Get(SessionUserEmail).(string)
	user.Name, _ = sess.Get(SessionUserName).(string)
	user.Picture, _ = sess.Get(SessionUserPicture).(string)
	return user
}
