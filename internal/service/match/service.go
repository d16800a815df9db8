package match

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/gymbro/gymbro-api/internal/app"
	"github.com/gymbro/gymbro-api/internal/db"
	svcErr "github.com/gymbro/gymbro-api/internal/errors"
	"github.com/gymbro/gymbro-api/internal/repository"
)

// Service implements the match-formation and discovery API.
// It contains the business logic on top of repository and cache layers.
// Each method corresponds to an HTTP endpoint mounted in register.go.
type Service struct {
	appCtx  *app.AppContext
	users   *repository.UserRepository
	matches *repository.MatchRepository
}

// NewService creates a new match service with dependencies from AppContext.
// Dependencies include:
//   - DB connection (via UserRepository and MatchRepository)
//   - RedisCache for like counters from AppContext
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		users:   repository.NewUserRepository(appCtx.DB),
		matches: repository.NewMatchRepository(appCtx.DB),
	}
}

type likeRequest struct {
	LikedUserID uint64 `json:"likedUserId"`
}

type passRequest struct {
	SeenUserID uint64 `json:"seenUserId"`
}

// Discover handles GET /users/discover.
//
// Behavior:
//   - currentUserId is required; minAge/maxAge/type/gymId are optional
//     filters ANDed together.
//   - Candidates the viewer already liked or passed, and the viewer
//     themselves, never appear.
//   - Returns a bounded random sample; an empty array is valid output.
func (s *Service) Discover(c *fiber.Ctx) error {
	viewerID, err := parseID(c.Query("currentUserId"))
	if err != nil {
		return svcErr.InvalidArgument("currentUserId must be a valid id")
	}

	var filters repository.DiscoverFilters

	if raw := c.Query("minAge"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return svcErr.InvalidArgument("minAge must be a number")
		}
		filters.MinAge = &n
	}
	if raw := c.Query("maxAge"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return svcErr.InvalidArgument("maxAge must be a number")
		}
		filters.MaxAge = &n
	}
	if raw := c.Query("type"); raw != "" {
		if !db.ValidExerciseType(raw) {
			return svcErr.InvalidArgument("unknown exercise type")
		}
		filters.Type = raw
	}
	if raw := c.Query("gymId"); raw != "" {
		gymID, err := parseID(raw)
		if err != nil {
			return svcErr.InvalidArgument("gymId must be a valid id")
		}
		filters.GymID = &gymID
	}

	s.appCtx.Logger.Debug("Discover called", "viewer", viewerID)

	rows, err := s.users.Discover(c.Context(), viewerID, filters)
	if err != nil {
		s.appCtx.Logger.Error("Discover failed", "err", err)
		return svcErr.Map(err)
	}

	return c.JSON(rows)
}

// RecordLike handles POST /users/:id/like.
//
// Behavior:
//   - Inserts the directional like edge, insert-if-absent: re-liking
//     is idempotent, not an error.
//   - After the insert commits, re-checks the reverse edge; on mutual
//     like the relation is created idempotently on the canonical key.
//   - The Redis like counter is incremented only when a row was
//     actually inserted, so retries do not inflate it.
//   - Responds {success, matched}; matched is true whenever the
//     mutual like exists, regardless of which call created the relation.
func (s *Service) RecordLike(c *fiber.Ctx) error {
	likerID, err := parseID(c.Params("id"))
	if err != nil {
		return svcErr.InvalidArgument("user id must be a valid id")
	}

	var req likeRequest
	if err := c.BodyParser(&req); err != nil || req.LikedUserID == 0 {
		return svcErr.InvalidArgument("likedUserId is required")
	}

	if likerID == req.LikedUserID {
		return svcErr.InvalidArgument("cannot like yourself")
	}

	s.appCtx.Logger.Debug("RecordLike called", "liker", likerID, "liked", req.LikedUserID)

	ctx := c.Context()

	inserted, err := s.matches.CreateLike(ctx, likerID, req.LikedUserID)
	if err != nil {
		s.appCtx.Logger.Error("CreateLike failed", "err", err)
		return svcErr.Map(err)
	}

	if inserted {
		key := s.appCtx.RedisCache.KeyForLikeCount(req.LikedUserID)
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
	}

	// check if liked also liked liker → mutual
	matched, err := s.matches.HasLiked(ctx, req.LikedUserID, likerID)
	if err != nil {
		return svcErr.Map(err)
	}

	if matched {
		if err := s.matches.CreateRelation(ctx, likerID, req.LikedUserID); err != nil {
			return svcErr.Map(err)
		}
		s.appCtx.Logger.Info("match formed", "user_a", likerID, "user_b", req.LikedUserID)
	}

	return c.JSON(fiber.Map{"success": true, "matched": matched})
}

// RecordPass handles POST /users/:id/pass.
// Persists the seen record so the candidate never reappears in the
// viewer's discovery. Idempotent.
func (s *Service) RecordPass(c *fiber.Ctx) error {
	viewerID, err := parseID(c.Params("id"))
	if err != nil {
		return svcErr.InvalidArgument("user id must be a valid id")
	}

	var req passRequest
	if err := c.BodyParser(&req); err != nil || req.SeenUserID == 0 {
		return svcErr.InvalidArgument("seenUserId is required")
	}

	if err := s.matches.CreateSeen(c.Context(), viewerID, req.SeenUserID); err != nil {
		s.appCtx.Logger.Error("CreateSeen failed", "err", err)
		return svcErr.Map(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListMatches handles GET /users/:id/matches.
// Returns all relations involving the user, each resolved to the other
// participant's profile summary, newest match first.
func (s *Service) ListMatches(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return svcErr.InvalidArgument("user id must be a valid id")
	}

	rows, err := s.matches.ListRelations(c.Context(), userID)
	if err != nil {
		s.appCtx.Logger.Error("ListRelations failed", "err", err)
		return svcErr.Map(err)
	}

	return c.JSON(rows)
}

// CountLikedYou handles GET /users/:id/likes/count.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. If cache miss, falls back to DB via MatchRepository.CountLikers.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) CountLikedYou(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return svcErr.InvalidArgument("user id must be a valid id")
	}

	ctx := c.Context()

	// try cache first
	if n, ok, _ := s.appCtx.RedisCache.GetLikeCount(ctx, userID); ok {
		return c.JSON(fiber.Map{"count": n})
	}

	// fallback: DB
	count, err := s.matches.CountLikers(ctx, userID)
	if err != nil {
		return svcErr.Map(err)
	}

	// set + TTL refresh
	_ = s.appCtx.RedisCache.UpdateLikeCount(ctx, userID, count)

	return c.JSON(fiber.Map{"count": count})
}

// parseID parses a decimal user-facing identifier.
func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
