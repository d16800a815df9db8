package profile

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gymbro/gymbro-api/internal/app"
	"github.com/gymbro/gymbro-api/internal/db"
	svcErr "github.com/gymbro/gymbro-api/internal/errors"
	"github.com/gymbro/gymbro-api/internal/repository"
)

// Service implements the profile API: fetch, full replace, partial update.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

// NewService creates a new profile service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

type replaceRequest struct {
	Name        string   `json:"name"`
	FamilyName  string   `json:"family_name"`
	Age         int      `json:"age"`
	Type        string   `json:"type"`
	Description *string  `json:"description"`
	GymID       *uint64  `json:"gym_id"`
	Exos        []string `json:"exos"`
}

// patchRequest is the fixed optional-field set allowed in PATCH.
// Unknown body fields are ignored rather than filtered at runtime.
type patchRequest struct {
	Name         *string `json:"name"`
	FamilyName   *string `json:"family_name"`
	Age          *int    `json:"age"`
	Type         *string `json:"type"`
	Description  *string `json:"description"`
	GymID        *uint64 `json:"gym_id"`
	AttachmentID *uint64 `json:"attachment_id"`
}

// GetUser handles GET /users/:id.
// Returns the profile with gym display fields and exercise tags.
func (s *Service) GetUser(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return svcErr.InvalidArgument("user id must be a valid id")
	}

	row, err := s.users.GetByID(c.Context(), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("user not found")
	}
	if err != nil {
		s.appCtx.Logger.Error("GetByID failed", "err", err)
		return svcErr.Map(err)
	}

	return c.JSON(row)
}

// ReplaceUser handles PUT /users/:id.
// Replaces the profile fields and rewrites the exercise tag set (max 3).
func (s *Service) ReplaceUser(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return svcErr.InvalidArgument("user id must be a valid id")
	}

	var req replaceRequest
	if err := c.BodyParser(&req); err != nil {
		return svcErr.InvalidArgument("malformed body")
	}
	if req.Name == "" || req.FamilyName == "" {
		return svcErr.InvalidArgument("name and family_name are required")
	}
	if req.Age <= 0 {
		return svcErr.InvalidArgument("age must be positive")
	}
	if !db.ValidExerciseType(req.Type) {
		return svcErr.InvalidArgument("unknown exercise type")
	}

	in := repository.ReplaceInput{
		Name:        req.Name,
		FamilyName:  req.FamilyName,
		Age:         req.Age,
		Type:        req.Type,
		Description: req.Description,
		GymID:       req.GymID,
		Exos:        req.Exos,
	}

	err = s.users.Replace(c.Context(), userID, in)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("user not found")
	}
	if err != nil {
		s.appCtx.Logger.Error("Replace failed", "err", err)
		return svcErr.Map(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// PatchUser handles PATCH /users/:id.
// Applies a partial update over the fixed optional-field set; a body
// with no recognized field is rejected.
func (s *Service) PatchUser(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return svcErr.InvalidArgument("user id must be a valid id")
	}

	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return svcErr.InvalidArgument("malformed body")
	}

	updates := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			return svcErr.InvalidArgument("name cannot be empty")
		}
		updates["name"] = *req.Name
	}
	if req.FamilyName != nil {
		if *req.FamilyName == "" {
			return svcErr.InvalidArgument("family_name cannot be empty")
		}
		updates["family_name"] = *req.FamilyName
	}
	if req.Age != nil {
		if *req.Age <= 0 {
			return svcErr.InvalidArgument("age must be positive")
		}
		updates["age"] = *req.Age
	}
	if req.Type != nil {
		if !db.ValidExerciseType(*req.Type) {
			return svcErr.InvalidArgument("unknown exercise type")
		}
		updates["type"] = *req.Type
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.GymID != nil {
		updates["gym_id"] = *req.GymID
	}
	if req.AttachmentID != nil {
		updates["attachment_id"] = *req.AttachmentID
	}

	if len(updates) == 0 {
		return svcErr.InvalidArgument("no fields to update")
	}

	err = s.users.Patch(c.Context(), userID, updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("user not found")
	}
	if err != nil {
		s.appCtx.Logger.Error("Patch failed", "err", err)
		return svcErr.Map(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
