package settings

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// ConstantRepository provides access to store configuration values
type ConstantRepository interface {
	shared.Repository[Constant]
	FindByKey(ctx context.Context, key string) (*Constant, error)
	FindAllAsMap(ctx context.Context) (map[string]string, error)
	DeleteByKey(ctx context.Context, key string) error
}
