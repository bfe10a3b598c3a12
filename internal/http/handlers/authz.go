package handlers

import (
	"balalaika/internal/domain"
	applog "balalaika/internal/log"
	"balalaika/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LoadSession resolves the sid cookie once per request and stores the
// domain.Session in Locals("session").
func LoadSession(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("session", auth.Current(c.Cookies("sid")))
		return c.Next()
	}
}

// RequireAdmin lets any authenticated session through; everyone else is sent
// to the admin login.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := c.Locals("session").(domain.Session)
		if !ok {
			sess = auth.Current(c.Cookies("sid"))
			c.Locals("session", sess)
		}
		switch sess.(type) {
		case domain.Authenticated:
			return c.Next()
		default:
			applog.Security(c, "access.denied.admin", map[string]any{"sid": c.Cookies("sid")})
			if c.Method() == fiber.MethodGet {
				return c.Redirect("/admin")
			}
			return render(c.Status(fiber.StatusForbidden), "notfound", fiber.Map{"Message": "Acceso denegado"})
		}
	}
}
