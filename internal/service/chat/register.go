package chat

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gymbro/gymbro-api/internal/app"
)

// Registrar ties the chat service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the chat service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the chat routes on the /api group.
func (r *Registrar) Register(router fiber.Router) {
	service := NewService(r.appCtx)

	router.Get("/relations/:id/messages", service.ListMessages)
	router.Post("/relations/:id/messages", service.PostMessage)
}
