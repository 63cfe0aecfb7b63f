package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categories catalog.CategoryRepository
	cache      cache.Cache
	logger     *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories catalog.CategoryRepository, c cache.Cache, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{
		categories: categories,
		cache:      c,
		logger:     logger,
	}
}

// List returns all categories ordered for storefront navigation
func (s *CategoryService) List(ctx context.Context, includeInactive bool) ([]CategoryResponse, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "display_order"
	filter.OrderDir = "asc"
	filter.PageSize = 200
	if !includeInactive {
		filter.Filters["is_active"] = true
	}

	categories, err := s.categories.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		count, err := s.categories.CountProducts(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, ToCategoryResponse(&categories[i], count))
	}
	return responses, nil
}

// GetBySlug returns a category by its slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, shared.ErrNotFound
	}
	count, err := s.categories.CountProducts(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category, count)
	return &resp, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	category.ImageURL = req.ImageURL
	category.DisplayOrder = req.DisplayOrder

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToCategoryResponse(category, 0)
	return &resp, nil
}

// Update modifies an existing category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	category.ImageURL = req.ImageURL
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	count, err := s.categories.CountProducts(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category, count)
	return &resp, nil
}

// Delete removes a category. Categories that still contain products
// cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.categories.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("INVALID_STATE", "category still contains products")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, cache.PrefixCategories); err != nil {
		s.logger.Warn("failed to invalidate category cache", zap.Error(err))
	}
}
