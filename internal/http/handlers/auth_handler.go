package handlers

import (
	"time"

	"balalaika/internal/domain"
	"balalaika/internal/log"
	"balalaika/internal/services"
	"balalaika/internal/validate"
	"balalaika/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const badLogin = "Correo o contraseña inválidos"

type AuthHandler struct {
	Auth         *services.AuthService
	SecureCookie bool
}

func (h *AuthHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   h.SecureCookie,
		})
	}
	return sid
}

// LoginForm renders the admin login. Signed-in sessions go straight to the dashboard.
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if _, ok := domain.SignedIn(session(c)); ok {
		return c.Redirect("/admin")
	}
	return render(c, "login", fiber.Map{"Err": "", "Email": ""})
}

func (h *AuthHandler) fail(c *fiber.Ctx, email, reason string) error {
	log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": reason})
	return render(c.Status(fiber.StatusUnauthorized), "login", fiber.Map{"Err": badLogin, "Email": email})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		return h.fail(c, email, "bad_format")
	}
	if !validate.Password(pass) {
		return h.fail(c, email, "bad_password_format")
	}

	sess, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		return h.fail(c, email, "bad_credentials")
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect(landing(view.Admin{Page: view.Login{}}, view.KindAdmin, sess))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	from := view.AdminFor(session(c), view.TabProducts)
	sid := h.ensureSID(c)
	if err := h.Auth.Logout(sid); err != nil {
		log.Error(c, "auth.logout.fail", err, nil)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect(landing(from, view.KindClient, domain.Anonymous{}))
}

// landing is the path a session change moves the visitor to. A refused
// transition stays on the current page.
func landing(from view.Mode, to view.Kind, s domain.Session) string {
	m, err := view.Go(from, to, view.TabProducts, s)
	if err != nil {
		return view.Path(from)
	}
	return view.Path(m)
}
