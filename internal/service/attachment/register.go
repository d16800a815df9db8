package attachment

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gymbro/gymbro-api/internal/app"
	"github.com/gymbro/gymbro-api/internal/config"
)

// Registrar ties the attachment service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
	cfg    *config.Config
}

// NewRegistrar creates a new Registrar for the attachment service.
func NewRegistrar(appCtx *app.AppContext, cfg *config.Config) *Registrar {
	return &Registrar{appCtx: appCtx, cfg: cfg}
}

// Register mounts the attachment routes on the /api group.
func (r *Registrar) Register(router fiber.Router) {
	service := NewService(r.appCtx, r.cfg)

	router.Post("/attachments", service.Upload)
	router.Get("/attachments/:id", service.Download)
}
