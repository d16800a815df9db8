package repository

import (
	"context"

	"github.com/gymbro/gymbro-api/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository provides data access for likes, passes and relations.
// It encapsulates the match-formation writes and the match listing query.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// MatchRow is one entry of a user's match list, resolved to the other
// participant's profile summary.
type MatchRow struct {
	RelationID   uint64  `json:"relation_id"`
	PartnerID    uint64  `json:"partner_id"`
	Name         string  `json:"name"`
	FamilyName   string  `json:"family_name"`
	Age          int     `json:"age"`
	Type         string  `json:"type"`
	AttachmentID *uint64 `json:"attachment_id"`
	GymName      *string `json:"gym_name"`
}

// CreateLike inserts the directional like edge liker -> liked.
//
// Behavior:
//   - Insert-if-absent on the unique (liker_id, liked_id) pair.
//   - Returns whether a row was actually inserted, so callers can keep
//     counters exact under idempotent retries.
//
// Example:
//
//	repo.CreateLike(ctx, 1, 2) // user 1 liked user 2
func (r *MatchRepository) CreateLike(ctx context.Context, likerID, likedID uint64) (bool, error) {
	like := db.Like{
		LikerID: likerID,
		LikedID: likedID,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "liker_id"}, {Name: "liked_id"}},
			DoNothing: true,
		}).
		Create(&like)
	return res.RowsAffected > 0, res.Error
}

// HasLiked checks whether liker has liked liked.
//
// Used for the mutual-like check after a like commits: each caller
// re-checks the reverse edge independently, so both sides of a
// concurrent mutual like report matched.
func (r *MatchRepository) HasLiked(ctx context.Context, likerID, likedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Count(&count).Error
	return count > 0, err
}

// CountLikers returns how many users liked the given user.
// Used in conjunction with the Redis counter (DB is fallback).
func (r *MatchRepository) CountLikers(ctx context.Context, likedID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liked_id = ?", likedID).
		Count(&count).Error
	return count, err
}

// CreateSeen records that viewer has passed on seen.
// Insert-if-absent on the unique (viewer_id, seen_id) pair.
func (r *MatchRepository) CreateSeen(ctx context.Context, viewerID, seenID uint64) error {
	seen := db.Seen{
		ViewerID: viewerID,
		SeenID:   seenID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "viewer_id"}, {Name: "seen_id"}},
			DoNothing: true,
		}).
		Create(&seen).Error
}

// CreateRelation stores the match between a and b.
//
// Behavior:
//   - The row is stored canonically as (min(a,b), max(a,b)) so the
//     unique pair index holds regardless of who liked whom last.
//   - Insert-if-absent: whichever of two concurrent mutual likes
//     commits first wins the row, the other silently no-ops.
func (r *MatchRepository) CreateRelation(ctx context.Context, a, b uint64) error {
	u1, u2 := a, b
	if u2 < u1 {
		u1, u2 = u2, u1
	}
	relation := db.Relation{
		User1ID: u1,
		User2ID: u2,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
			DoNothing: true,
		}).
		Create(&relation).Error
}

// GetRelation fetches a relation by id.
func (r *MatchRepository) GetRelation(ctx context.Context, relationID uint64) (*db.Relation, error) {
	var relation db.Relation
	if err := r.db.WithContext(ctx).First(&relation, relationID).Error; err != nil {
		return nil, err
	}
	return &relation, nil
}

// ListRelations returns all matches involving the given user, resolved
// to the other participant's profile summary.
//
// Behavior:
//   - Partner profile is joined from users; gym name is a left join so
//     a missing gym yields a null gym_name, not a dropped row.
//   - Ordered most-recent-first by match creation time.
//
// Example:
//
//	repo.ListRelations(ctx, 42) // matches of user 42, newest first
func (r *MatchRepository) ListRelations(ctx context.Context, userID uint64) ([]MatchRow, error) {
	var rows []MatchRow
	err := r.db.WithContext(ctx).
		Table("relations r").
		Select(`r.id AS relation_id,
			CASE WHEN r.user1_id = ? THEN r.user2_id ELSE r.user1_id END AS partner_id,
			u.name, u.family_name, u.age, u.type, u.attachment_id,
			g.name AS gym_name`, userID).
		Joins("JOIN users u ON u.id = CASE WHEN r.user1_id = ? THEN r.user2_id ELSE r.user1_id END", userID).
		Joins("LEFT JOIN gyms g ON u.gym_id = g.id").
		Where("r.user1_id = ? OR r.user2_id = ?", userID, userID).
		Order("r.created_at DESC, r.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
