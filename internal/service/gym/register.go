package gym

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gymbro/gymbro-api/internal/app"
)

// Registrar ties the gym service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the gym service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the gym routes on the /api group.
func (r *Registrar) Register(router fiber.Router) {
	service := NewService(r.appCtx)

	router.Get("/gyms", service.ListGyms)
	router.Get("/gyms/:id", service.GetGym)
}
