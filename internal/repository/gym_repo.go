package repository

import (
	"context"

	"github.com/gymbro/gymbro-api/internal/db"

	"gorm.io/gorm"
)

// GymRepository provides read access to the static gym reference data.
type GymRepository struct {
	db *gorm.DB
}

// NewGymRepository creates a new repository bound to the given DB connection.
func NewGymRepository(database *gorm.DB) *GymRepository {
	return &GymRepository{db: database}
}

// List returns all gyms ordered by name.
func (r *GymRepository) List(ctx context.Context) ([]db.Gym, error) {
	var gyms []db.Gym
	err := r.db.WithContext(ctx).Order("name").Find(&gyms).Error
	return gyms, err
}

// GetByID fetches a single gym.
func (r *GymRepository) GetByID(ctx context.Context, gymID uint64) (*db.Gym, error) {
	var gym db.Gym
	if err := r.db.WithContext(ctx).First(&gym, gymID).Error; err != nil {
		return nil, err
	}
	return &gym, nil
}
