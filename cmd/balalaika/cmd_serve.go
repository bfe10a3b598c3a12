package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"

	"balalaika/internal/backend"
	"balalaika/internal/config"
	"balalaika/internal/domain"
	"balalaika/internal/http/handlers"
	"balalaika/internal/live"
	applog "balalaika/internal/log"
	"balalaika/internal/metrics"
	"balalaika/internal/repos"
	"balalaika/internal/services"
	"balalaika/internal/store"
	"balalaika/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := applog.Logger()
	cfg := config.Load(log)
	applog.SetLevel(cfg.LogLevel)

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Warnf("could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			applog.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	// Cross-instance change relay
	var notifier backend.Notifier
	var relay *live.RedisRelay
	if cfg.RedisURL != "" {
		relay, err = live.NewRedisRelay(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer relay.Close()
		notifier = relay
	}

	b, err := backend.Open(db, notifier)
	if err != nil {
		return err
	}
	if relay != nil {
		go func() {
			err := relay.Listen(ctx, func(c domain.Collection) {
				if err := b.Refresh(c); err != nil {
					log.WithError(err).WithField("collection", c).Error("relay.refresh.fail")
				}
			})
			if err != nil {
				log.WithError(err).Error("relay.listen.fail")
			}
		}()
	}

	st := store.New()
	go watch.New(b, st).Run(ctx)

	authSvc := services.NewAuthService(repos.NewUserRepo(db))
	deps := handlers.NewDeps(b, st, cfg, authSvc)
	deps.StreamHandler.Done = ctx.Done()

	app := newApp(cfg, deps)

	errc := make(chan error, 1)
	go func() { errc <- app.Listen(":" + cfg.Port) }()
	log.WithField("port", cfg.Port).Info("server.start")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server.stop")
	return nil
}

func newApp(cfg config.Config, deps *handlers.Deps) *fiber.App {
	engine := handlers.NewEngine(cfg.TemplatesDir)
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views:        engine,
		BodyLimit:    cfg.MaxUploadBytes,
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		// Product photos are inline data URIs or remote URLs.
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data: https:",
	}))
	app.Use(handlers.LoadSession(deps.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || p == "/api/v1/stream" || p == "/metrics"
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Falló la verificación de seguridad. Recarga la página e intenta de nuevo."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	app.Static("/static", "./web/static")
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	handlers.Routes(app, deps)
	app.Use(handlers.NotFound)
	return app
}
