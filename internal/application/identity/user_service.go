package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserService handles admin user management
type UserService struct {
	users  identity.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

// ListUsersQuery filters the user listing
type ListUsersQuery struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// List returns a paginated user listing
func (s *UserService) List(ctx context.Context, query ListUsersQuery) (*shared.Paginated[UserResponse], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.OrderBy != "" {
		filter.OrderBy = query.OrderBy
	}
	if query.OrderDir != "" {
		filter.OrderDir = query.OrderDir
	}
	filter.Search = query.Search

	users, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Get returns a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// SetAdmin grants or revokes administrator privileges. Admins cannot
// demote themselves, which guarantees at least one admin remains.
func (s *UserService) SetAdmin(ctx context.Context, actorID, id uuid.UUID, isAdmin bool) (*UserResponse, error) {
	if actorID == id && !isAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "administrators cannot demote themselves")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		user.Promote()
	} else {
		user.Demote()
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user admin flag changed",
		zap.String("user_id", id.String()),
		zap.Bool("is_admin", isAdmin))

	resp := ToUserResponse(user)
	return &resp, nil
}

// SetActive enables or disables an account. Admins cannot deactivate
// their own account.
func (s *UserService) SetActive(ctx context.Context, actorID, id uuid.UUID, isActive bool) (*UserResponse, error) {
	if actorID == id && !isActive {
		return nil, shared.NewDomainError("FORBIDDEN", "administrators cannot deactivate themselves")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if isActive {
		user.Activate()
	} else {
		user.Deactivate()
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}
