package chat

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gymbro/gymbro-api/internal/app"
	svcErr "github.com/gymbro/gymbro-api/internal/errors"
	"github.com/gymbro/gymbro-api/internal/repository"
)

// DefaultPageSize bounds a single message listing.
const DefaultPageSize = 50

// Service implements the per-relation chat log API.
type Service struct {
	appCtx   *app.AppContext
	matches  *repository.MatchRepository
	messages *repository.MessageRepository
}

// NewService creates a new chat service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		matches:  repository.NewMatchRepository(appCtx.DB),
		messages: repository.NewMessageRepository(appCtx.DB),
	}
}

type postMessageRequest struct {
	FromUserID uint64 `json:"fromUserId"`
	Content    string `json:"content"`
}

type messageListResponse struct {
	Messages            []repository.MessageRow `json:"messages"`
	NextPaginationToken *string                 `json:"nextPaginationToken,omitempty"`
}

// ListMessages handles GET /relations/:id/messages.
//
// Behavior:
//   - Messages are returned in send order ascending.
//   - Optional paginationToken/limit for cursor paging; the token of
//     the next page is echoed back when more messages exist.
//   - 404 for an unknown relation.
func (s *Service) ListMessages(c *fiber.Ctx) error {
	relationID, err := parseID(c.Params("id"))
	if err != nil {
		return svcErr.InvalidArgument("relation id must be a valid id")
	}

	if _, err := s.matches.GetRelation(c.Context(), relationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.NotFound("relation not found")
		}
		return svcErr.Map(err)
	}

	limit := DefaultPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return svcErr.InvalidArgument("limit must be a positive number")
		}
		if n < limit {
			limit = n
		}
	}

	var token *string
	if raw := c.Query("paginationToken"); raw != "" {
		token = &raw
	}

	rows, nextToken, err := s.messages.ListByRelation(c.Context(), relationID, token, limit)
	if err != nil {
		if strings.Contains(err.Error(), "invalid pagination token") {
			return svcErr.InvalidArgument("invalid pagination token")
		}
		s.appCtx.Logger.Error("ListByRelation failed", "err", err)
		return svcErr.Map(err)
	}

	return c.JSON(messageListResponse{Messages: rows, NextPaginationToken: nextToken})
}

// PostMessage handles POST /relations/:id/messages.
// Appends to the relation's log; no edit or delete exists.
func (s *Service) PostMessage(c *fiber.Ctx) error {
	relationID, err := parseID(c.Params("id"))
	if err != nil {
		return svcErr.InvalidArgument("relation id must be a valid id")
	}

	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return svcErr.InvalidArgument("malformed body")
	}
	if req.FromUserID == 0 {
		return svcErr.InvalidArgument("fromUserId is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return svcErr.InvalidArgument("content is required")
	}

	relation, err := s.matches.GetRelation(c.Context(), relationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.NotFound("relation not found")
		}
		return svcErr.Map(err)
	}
	if req.FromUserID != relation.User1ID && req.FromUserID != relation.User2ID {
		return svcErr.InvalidArgument("sender is not part of this relation")
	}

	msg, err := s.messages.Create(c.Context(), relationID, req.FromUserID, req.Content)
	if err != nil {
		s.appCtx.Logger.Error("message create failed", "err", err)
		return svcErr.Map(err)
	}

	return c.JSON(fiber.Map{"success": true, "id": msg.ID})
}

func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
