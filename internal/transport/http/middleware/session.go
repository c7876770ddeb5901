package middleware

import (
	"context"

	"support-desk/internal/entities"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// Authenticator resolves a raw session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entities.User, error)
}

// DenyFunc writes the response for a request that failed a guard.
type DenyFunc func(c *fiber.Ctx, err error) error

// CurrentUser returns the user stored by a session guard.
func CurrentUser(c *fiber.Ctx) (entities.User, bool) {
	u, ok := c.Locals(userLocal).(entities.User)
	return u, ok
}

// Session authenticates the session cookie and stores the user for later
// handlers. Failures go to deny.
func Session(auth Authenticator, cookieName string, deny DenyFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.Authenticate(c.Context(), c.Cookies(cookieName))
		if err != nil {
			return deny(c, err)
		}
		c.Locals(userLocal, *user)
		return c.Next()
	}
}

// Admin lets only admins through. It must run after Session.
func Admin(deny DenyFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return deny(c, entities.ErrUnauthorized)
		}
		if !user.IsAdmin() {
			return deny(c, entities.ErrForbidden)
		}
		return c.Next()
	}
}

// RedirectTo returns a DenyFunc answering every failure with a 302 to path.
func RedirectTo(path string) DenyFunc {
	return func(c *fiber.Ctx, _ error) error {
		return c.Redirect(path, fiber.StatusFound)
	}
}
