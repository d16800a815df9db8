package gym

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gymbro/gymbro-api/internal/app"
	"github.com/gymbro/gymbro-api/internal/cache"
	"github.com/gymbro/gymbro-api/internal/db"
	svcErr "github.com/gymbro/gymbro-api/internal/errors"
	"github.com/gymbro/gymbro-api/internal/repository"
)

// Service serves the static gym reference data.
type Service struct {
	appCtx *app.AppContext
	gyms   *repository.GymRepository
}

// NewService creates a new gym service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		gyms:   repository.NewGymRepository(appCtx.DB),
	}
}

type gymResponse struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	AttachmentID *uint64 `json:"attachment_id"`
}

// ListGyms handles GET /gyms.
// Cache-first strategy: the serialized list lives in Redis with a 1h
// TTL, DB is the fallback. Gyms are static reference data, so a stale
// hour is acceptable.
func (s *Service) ListGyms(c *fiber.Ctx) error {
	ctx := c.Context()

	if cached, err := s.appCtx.RedisCache.Get(ctx, cache.GymsListKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	gyms, err := s.gyms.List(ctx)
	if err != nil {
		s.appCtx.Logger.Error("gym list failed", "err", err)
		return svcErr.Map(err)
	}

	resp := make([]gymResponse, 0, len(gyms))
	for _, g := range gyms {
		resp = append(resp, toResponse(g))
	}

	if payload, err := json.Marshal(resp); err == nil {
		_ = s.appCtx.RedisCache.Set(ctx, cache.GymsListKey, payload, cache.GymsListTTL)
	}

	return c.JSON(resp)
}

// GetGym handles GET /gyms/:id.
func (s *Service) GetGym(c *fiber.Ctx) error {
	gymID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return svcErr.InvalidArgument("gym id must be a valid id")
	}

	g, err := s.gyms.GetByID(c.Context(), gymID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("gym not found")
	}
	if err != nil {
		return svcErr.Map(err)
	}

	return c.JSON(toResponse(*g))
}

func toResponse(g db.Gym) gymResponse {
	return gymResponse{
		ID:           g.ID,
		Name:         g.Name,
		Location:     g.Location,
		AttachmentID: g.AttachmentID,
	}
}
