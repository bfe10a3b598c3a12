package handlers

import (
	"time"

	applog "balalaika/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Routes mounts every page, API and admin route on app. Global middleware
// (request id, access log, helmet, csrf, LoadSession) is the caller's job.
func Routes(app *fiber.App, d *Deps) {
	// Public pages
	app.Get("/", d.StoreHandler.Landing)
	app.Get("/catalog", limiter.New(limiter.Config{Max: 120, Expiration: time.Minute}), d.StoreHandler.CatalogPage)
	app.Get("/about", d.StoreHandler.About)
	app.Get("/shipping", d.StoreHandler.Shipping)
	app.Get("/buy/:id", d.StoreHandler.Buy)

	// API
	api := app.Group("/api/v1")
	apiLimiter := limiter.New(limiter.Config{
		Max:        60,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|api"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/catalog", apiLimiter, d.APIHandler.List)
	api.Get("/subcategories", apiLimiter, d.APIHandler.SubCategories)
	api.Get("/stream", d.StreamHandler.Stream)

	// Auth routes (login throttled)
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return render(c.Status(fiber.StatusTooManyRequests), "login", fiber.Map{"Err": "Demasiados intentos. Intenta más tarde.", "Email": ""})
		},
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	// Admin: /admin itself picks login or dashboard from the session.
	app.Get("/admin", d.AdminHandler.Home)
	admin := app.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/products/new", d.AdminHandler.NewProduct)
	admin.Post("/products", d.AdminHandler.CreateProduct)
	admin.Get("/products/:id/edit", d.AdminHandler.EditProduct)
	admin.Post("/products/:id", d.AdminHandler.UpdateProduct)
	admin.Post("/products/:id/stock", d.AdminHandler.ToggleStock)
	admin.Post("/categories", d.AdminHandler.CreateCategory)
	admin.Post("/categories/:id/rename", d.AdminHandler.RenameCategory)
	admin.Post("/subcategories", d.AdminHandler.CreateSubCategory)
	admin.Post("/subcategories/:id/rename", d.AdminHandler.RenameSubCategory)
	admin.Get("/:collection/:id/delete", d.AdminHandler.ConfirmDelete)
	admin.Post("/:collection/:id/delete", d.AdminHandler.Delete)

	// loaded turns true once the first product snapshot has arrived
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "loaded": d.Store.Loaded()})
	})
}

// NotFound is the catch-all; mount it last.
func NotFound(c *fiber.Ctx) error {
	return notFound(c, "Página no encontrada")
}
