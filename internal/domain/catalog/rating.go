package catalog

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Rating is a single customer's star rating for a product.
// One row per (product, user); re-rating replaces the previous value.
type Rating struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_product_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_product_user,priority:2"`
	Stars     int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Rating) TableName() string {
	return "product_ratings"
}

// NewRating creates a rating after range validation
func NewRating(productID, userID uuid.UUID, stars int) (*Rating, error) {
	if stars < 1 || stars > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "rating must be between 1 and 5")
	}
	return &Rating{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		UserID:     userID,
		Stars:      stars,
	}, nil
}
