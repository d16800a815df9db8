package repository

import (
	"context"

	"github.com/gymbro/gymbro-api/internal/db"

	"gorm.io/gorm"
)

// DiscoverLimit bounds the candidate sample returned by Discover.
const DiscoverLimit = 20

// MaxExerciseTags caps the free-text labels per user.
const MaxExerciseTags = 3

// UserRepository provides data access for user profiles, exercise tags
// and the discovery query.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// UserRow is a profile enriched with its gym display fields and tags.
type UserRow struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	FamilyName   string   `json:"family_name"`
	Age          int      `json:"age"`
	Type         string   `json:"type"`
	Description  *string  `json:"description"`
	GymID        *uint64  `json:"gym_id"`
	AttachmentID *uint64  `json:"attachment_id"`
	GymName      *string  `json:"gym_name"`
	GymLocation  *string  `json:"gym_location"`
	Exos         []string `json:"exos" gorm:"-"`
}

// DiscoverFilters are optional predicates combined with AND semantics.
type DiscoverFilters struct {
	MinAge *int
	MaxAge *int
	Type   string
	GymID  *uint64
}

// ReplaceInput is the full profile field set for PUT.
type ReplaceInput struct {
	Name        string
	FamilyName  string
	Age         int
	Type        string
	Description *string
	GymID       *uint64
	Exos        []string
}

// Discover returns a bounded random sample of candidates for viewer.
//
// Behavior:
//   - Unconditionally excludes the viewer, everyone the viewer already
//     liked, and everyone the viewer passed on.
//   - Optional filters (age range, type, gym) are ANDed on top.
//   - Random order is an explicit design choice to keep results fresh;
//     there is no ranking.
//   - Each candidate carries gym name/location via left join and up to
//     3 exercise tags. A tag fetch failure degrades that candidate's
//     tag list to empty instead of failing the listing.
//
// Example:
//
//	repo.Discover(ctx, 1, DiscoverFilters{Type: "cardio"})
func (r *UserRepository) Discover(ctx context.Context, viewerID uint64, f DiscoverFilters) ([]UserRow, error) {
	query := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.id, u.name, u.family_name, u.age, u.type, u.description,
			u.gym_id, u.attachment_id,
			g.name AS gym_name, g.location AS gym_location`).
		Joins("LEFT JOIN gyms g ON u.gym_id = g.id").
		Where("u.id != ?", viewerID).
		Where("u.id NOT IN (SELECT liked_id FROM likes WHERE liker_id = ?)", viewerID).
		Where("u.id NOT IN (SELECT seen_id FROM seens WHERE viewer_id = ?)", viewerID)

	if f.MinAge != nil {
		query = query.Where("u.age >= ?", *f.MinAge)
	}
	if f.MaxAge != nil {
		query = query.Where("u.age <= ?", *f.MaxAge)
	}
	if f.Type != "" {
		query = query.Where("u.type = ?", f.Type)
	}
	if f.GymID != nil {
		query = query.Where("u.gym_id = ?", *f.GymID)
	}

	var rows []UserRow
	err := query.Order(randomOrder(r.db)).Limit(DiscoverLimit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		exos, err := r.GetTags(ctx, rows[i].ID)
		if err != nil {
			exos = []string{}
		}
		rows[i].Exos = exos
	}

	return rows, nil
}

// GetByID fetches a single profile with gym fields and tags.
func (r *UserRepository) GetByID(ctx context.Context, userID uint64) (*UserRow, error) {
	var row UserRow
	err := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.id, u.name, u.family_name, u.age, u.type, u.description,
			u.gym_id, u.attachment_id,
			g.name AS gym_name, g.location AS gym_location`).
		Joins("LEFT JOIN gyms g ON u.gym_id = g.id").
		Where("u.id = ?", userID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}

	exos, err := r.GetTags(ctx, userID)
	if err != nil {
		return nil, err
	}
	row.Exos = exos

	return &row, nil
}

// GetTags returns up to 3 exercise tag labels for a user.
func (r *UserRepository) GetTags(ctx context.Context, userID uint64) ([]string, error) {
	labels := []string{}
	err := r.db.WithContext(ctx).
		Model(&db.ExerciseTag{}).
		Where("user_id = ?", userID).
		Order("id").
		Limit(MaxExerciseTags).
		Pluck("label", &labels).Error
	return labels, err
}

// Replace overwrites the profile fields and rewrites the tag set.
//
// Behavior:
//   - Runs as a single transaction: field update, tag delete, tag insert.
//   - Tags beyond the cap of 3 are dropped.
//   - Returns gorm.ErrRecordNotFound for an unknown user.
func (r *UserRepository) Replace(ctx context.Context, userID uint64, in ReplaceInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user db.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"name":        in.Name,
			"family_name": in.FamilyName,
			"age":         in.Age,
			"type":        in.Type,
			"description": in.Description,
			"gym_id":      in.GymID,
		}
		if err := tx.Model(&db.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&db.ExerciseTag{}).Error; err != nil {
			return err
		}
		exos := in.Exos
		if len(exos) > MaxExerciseTags {
			exos = exos[:MaxExerciseTags]
		}
		for _, label := range exos {
			if err := tx.Create(&db.ExerciseTag{UserID: userID, Label: label}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Patch applies a partial update of already-validated columns.
// Returns gorm.ErrRecordNotFound for an unknown user.
func (r *UserRepository) Patch(ctx context.Context, userID uint64, updates map[string]any) error {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

// randomOrder picks the dialect's random-sort expression.
func randomOrder(database *gorm.DB) string {
	if database.Dialector.Name() == "sqlite" {
		return "RANDOM()"
	}
	return "RAND()"
}
