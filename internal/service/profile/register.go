package profile

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gymbro/gymbro-api/internal/app"
)

// Registrar ties the profile service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the profile service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the profile routes on the /api group.
func (r *Registrar) Register(router fiber.Router) {
	service := NewService(r.appCtx)

	router.Get("/users/:id", service.GetUser)
	router.Put("/users/:id", service.ReplaceUser)
	router.Patch("/users/:id", service.PatchUser)
}
