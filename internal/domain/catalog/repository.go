package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository provides access to persisted products
type ProductRepository interface {
	shared.Repository[Product]
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindPage(ctx context.Context, filter shared.Filter) (shared.Paginated[Product], error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	FindLowStock(ctx context.Context, limit int) ([]Product, error)
	FindTopSelling(ctx context.Context, limit int) ([]Product, error)
}

// CategoryRepository provides access to persisted categories
type CategoryRepository interface {
	shared.Repository[Category]
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// RatingRepository provides access to product ratings
type RatingRepository interface {
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*Rating, error)
	Save(ctx context.Context, rating *Rating) error
}
