package main

import (
	"context"

	"github.com/gymbro/gymbro-api/internal/app"
	"github.com/gymbro/gymbro-api/internal/cache"
	"github.com/gymbro/gymbro-api/internal/config"
	"github.com/gymbro/gymbro-api/internal/db"
	"github.com/gymbro/gymbro-api/internal/logger"
	"github.com/gymbro/gymbro-api/internal/server"
	"github.com/gymbro/gymbro-api/internal/service/attachment"
	"github.com/gymbro/gymbro-api/internal/service/chat"
	"github.com/gymbro/gymbro-api/internal/service/gym"
	"github.com/gymbro/gymbro-api/internal/service/match"
	"github.com/gymbro/gymbro-api/internal/service/profile"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Inject logger into app context
	appCtx := app.New(database, redisCache, log)

	// match must come before profile so /users/discover beats /users/:id
	registrars := []server.Registrar{
		match.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
		gym.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
		attachment.NewRegistrar(appCtx, cfg),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedDemoData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.Start(cfg, appCtx, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
