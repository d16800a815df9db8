package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gymbro/gymbro-api/internal/app"
	"github.com/gymbro/gymbro-api/internal/config"
)

// NewApp builds the Fiber app, mounts middleware and registers all services.
func NewApp(cfg *config.Config, appCtx *app.AppContext, registrars ...Registrar) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName:               "GymBro API",
		DisableStartupMessage: true,
		BodyLimit:             (cfg.Attachment.MaxUploadMB + 1) * 1024 * 1024,
		ErrorHandler:          errorHandler,
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(cors.New())
	fiberApp.Use(RequestLogger(appCtx.Logger))

	api := fiberApp.Group("/api")

	api.Get("/health", healthHandler(appCtx))

	// register all services
	for _, r := range registrars {
		r.Register(api)
	}

	return fiberApp
}

// Start boots the HTTP server and blocks until SIGINT/SIGTERM, then
// shuts down gracefully.
func Start(cfg *config.Config, appCtx *app.AppContext, registrars ...Registrar) error {
	fiberApp := NewApp(cfg, appCtx, registrars...)

	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- fiberApp.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}
		return nil
	case <-sigCtx.Done():
		appCtx.Logger.Info("shutting down")
		return fiberApp.ShutdownWithTimeout(10 * time.Second)
	}
}

// errorHandler renders every error as the {"error": "..."} envelope the
// mobile client expects.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func healthHandler(appCtx *app.AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "ok"
		if sqlDB, err := appCtx.DB.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "unhealthy"
		}

		redisStatus := "ok"
		if err := appCtx.RedisCache.Ping(c.Context()); err != nil {
			redisStatus = "unhealthy"
		}

		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"db":        dbStatus,
			"redis":     redisStatus,
		})
	}
}
