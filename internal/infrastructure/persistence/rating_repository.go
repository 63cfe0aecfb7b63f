package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormRatingRepository implements catalog.RatingRepository using GORM
type GormRatingRepository struct {
	db *gorm.DB
}

// NewGormRatingRepository creates a new GormRatingRepository
func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

// FindByProductAndUser finds a user's rating for a product
func (r *GormRatingRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*catalog.Rating, error) {
	var rating catalog.Rating
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

// Save creates or updates a rating
func (r *GormRatingRepository) Save(ctx context.Context, rating *catalog.Rating) error {
	return r.db.WithContext(ctx).Save(rating).Error
}

// Ensure GormRatingRepository implements RatingRepository
var _ catalog.RatingRepository = (*GormRatingRepository)(nil)
