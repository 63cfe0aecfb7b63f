package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Repository provides access to persisted orders
type Repository interface {
	shared.Repository[Order]
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[Order], error)
	NumberExists(ctx context.Context, number string) (bool, error)
}
