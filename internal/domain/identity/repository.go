package identity

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// UserRepository provides access to persisted users
type UserRepository interface {
	shared.Repository[User]
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
