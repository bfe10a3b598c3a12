package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"balalaika/internal/domain"
	applog "balalaika/internal/log"
	"balalaika/internal/view"
)

// NewEngine loads the templates under dir with the storefront helpers.
func NewEngine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFuncMap(map[string]any{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"pct":   func(f float64) string { return decimal.NewFromFloat(f).String() },
		"isData": func(s string) bool { return strings.HasPrefix(s, "data:") },
		"isImg": func(s string) bool {
			return strings.HasPrefix(s, "data:image/") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
		},
	})
	return engine
}

func session(c *fiber.Ctx) domain.Session {
	if s, ok := c.Locals("session").(domain.Session); ok {
		return s
	}
	return domain.Anonymous{}
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	sess := session(c)
	if u, ok := domain.SignedIn(sess); ok {
		data["User"] = u
	}
	if _, ok := data["Nav"]; !ok {
		if m, ok := view.Resolve(c.Path(), c.Query("tab"), sess); ok {
			data["Nav"] = view.Nav(m, sess)
		} else {
			data["Nav"] = view.Nav(view.Client{}, sess)
		}
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	data["CSRFToken"] = tok
	return c.Render(tmpl, data)
}

// alert is the blocking error page for failed backend writes. The raw error
// is shown so the operator can retry by hand.
func alert(c *fiber.Ctx, back string, err error) error {
	return render(c.Status(fiber.StatusBadGateway), "alert", fiber.Map{"Message": err.Error(), "Back": back})
}

func notFound(c *fiber.Ctx, msg string) error {
	return render(c.Status(fiber.StatusNotFound), "notfound", fiber.Map{"Message": msg})
}

const friendlyError = "Algo salió mal. Intenta de nuevo."

// ErrorHandler logs err and answers with a friendly page; internal details
// never reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	applog.Error(c, "server.error", err, nil)
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": friendlyError}); rerr != nil {
		return c.Status(code).SendString(friendlyError)
	}
	return nil
}
