package match

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gymbro/gymbro-api/internal/app"
)

// Registrar ties the match service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the match routes on the /api group.
// Must be registered before the profile service so /users/discover is
// matched ahead of /users/:id.
func (r *Registrar) Register(router fiber.Router) {
	service := NewService(r.appCtx)

	router.Get("/users/discover", service.Discover)
	router.Post("/users/:id/like", service.RecordLike)
	router.Post("/users/:id/pass", service.RecordPass)
	router.Get("/users/:id/matches", service.ListMatches)
	router.Get("/users/:id/likes/count", service.CountLikedYou)
}
