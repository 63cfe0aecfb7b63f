package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/cache"
)

// ProductService handles product-related business operations
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	ratings    catalog.RatingRepository
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	ratings catalog.RatingRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products:   products,
		categories: categories,
		ratings:    ratings,
		cache:      c,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// List returns a filtered, paginated product listing
func (s *ProductService) List(ctx context.Context, query ListProductsQuery) (*shared.Paginated[ProductResponse], error) {
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

	if !query.IncludeInactive {
		filter.Filters["is_active"] = true
	}
	if query.CategoryID != "" {
		categoryID, err := uuid.Parse(query.CategoryID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "invalid category ID")
		}
		filter.Filters["category_id"] = categoryID
	}
	if query.Brand != "" {
		filter.Filters["brand"] = query.Brand
	}
	if query.InStock {
		filter.Filters["in_stock"] = true
	}
	if query.Featured {
		filter.Filters["is_featured"] = true
	}

	page, err := s.products.FindPage(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, ToProductResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// GetByID returns a product by its ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetBySlug returns a product by its slug and counts the view.
// The detail response is cached per slug to absorb product page traffic.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	cacheKey := cache.PrefixProducts + slug

	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
			var resp ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				s.countView(ctx, resp.ID)
				return &resp, nil
			}
		}
	}

	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.ErrNotFound
	}

	resp := ToProductResponse(product)
	if s.cache != nil {
		if encoded, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(encoded), s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache product", zap.String("slug", slug), zap.Error(err))
			}
		}
	}

	s.countView(ctx, product.ID)
	return &resp, nil
}

// countView increments the view counter, losing the count on error
func (s *ProductService) countView(ctx context.Context, id uuid.UUID) {
	if err := s.products.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn("failed to increment view count",
			zap.String("product_id", id.String()), zap.Error(err))
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "price is not a valid decimal")
	}

	if existing, err := s.products.FindBySKU(ctx, req.SKU); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "a product with this SKU already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.SKU, valueobject.NewMoneyUSD(price))
	if err != nil {
		return nil, err
	}

	if err := s.applyProductFields(ctx, product, productFields{
		Description:       req.Description,
		CompareAtPrice:    req.CompareAtPrice,
		CostPrice:         req.CostPrice,
		StockQuantity:     &req.StockQuantity,
		LowStockThreshold: &req.LowStockThreshold,
		TrackInventory:    req.TrackInventory,
		CategoryID:        req.CategoryID,
		Brand:             req.Brand,
		Tags:              req.Tags,
		ImageURL:          req.ImageURL,
		IsFeatured:        &req.IsFeatured,
	}); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateProducts(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update modifies an existing product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "price is not a valid decimal")
	}
	if err := product.SetPrice(valueobject.NewMoneyUSD(price)); err != nil {
		return nil, err
	}

	if err := s.applyProductFields(ctx, product, productFields{
		Description:       req.Description,
		CompareAtPrice:    req.CompareAtPrice,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		TrackInventory:    req.TrackInventory,
		CategoryID:        req.CategoryID,
		Brand:             req.Brand,
		Tags:              req.Tags,
		ImageURL:          req.ImageURL,
		IsFeatured:        req.IsFeatured,
	}); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateProducts(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// productFields carries the optional fields shared by create and update
type productFields struct {
	Description       string
	CompareAtPrice    string
	CostPrice         string
	StockQuantity     *int
	LowStockThreshold *int
	TrackInventory    *bool
	CategoryID        string
	Brand             string
	Tags              []string
	ImageURL          string
	IsFeatured        *bool
}

func (s *ProductService) applyProductFields(ctx context.Context, product *catalog.Product, f productFields) error {
	product.Description = f.Description

	if f.CompareAtPrice != "" {
		d, err := decimal.NewFromString(f.CompareAtPrice)
		if err != nil || d.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "compare-at price is not a valid decimal")
		}
		product.CompareAtPrice = d
	}
	if f.CostPrice != "" {
		d, err := decimal.NewFromString(f.CostPrice)
		if err != nil || d.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "cost price is not a valid decimal")
		}
		product.CostPrice = d
	}
	if f.StockQuantity != nil {
		product.StockQuantity = *f.StockQuantity
	}
	if f.LowStockThreshold != nil && *f.LowStockThreshold > 0 {
		product.LowStockThreshold = *f.LowStockThreshold
	}
	if f.TrackInventory != nil {
		product.TrackInventory = *f.TrackInventory
	}
	if f.CategoryID != "" {
		categoryID, err := uuid.Parse(f.CategoryID)
		if err != nil {
			return shared.NewDomainError("INVALID_INPUT", "invalid category ID")
		}
		if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND", "category does not exist")
			}
			return err
		}
		product.CategoryID = &categoryID
	}
	product.Brand = f.Brand
	if f.Tags != nil {
		product.Tags = joinTags(f.Tags)
	}
	product.ImageURL = f.ImageURL
	if f.IsFeatured != nil {
		product.IsFeatured = *f.IsFeatured
	}
	product.Touch()
	return nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateProducts(ctx)
	return nil
}

// SetActive toggles product visibility in the storefront
func (s *ProductService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		product.Activate()
	} else {
		product.Deactivate()
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateProducts(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Rate records a customer's star rating, replacing any previous rating
// by the same user.
func (s *ProductService) Rate(ctx context.Context, productID, userID uuid.UUID, stars int) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.ratings.FindByProductAndUser(ctx, productID, userID)
	switch {
	case err == nil:
		if err := product.ReplaceRating(existing.Stars, stars); err != nil {
			return nil, err
		}
		existing.Stars = stars
		existing.Touch()
		if err := s.ratings.Save(ctx, existing); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		rating, err := catalog.NewRating(productID, userID, stars)
		if err != nil {
			return nil, err
		}
		if err := product.AddRating(stars); err != nil {
			return nil, err
		}
		if err := s.ratings.Save(ctx, rating); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateProducts(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// LowStock lists products at or below their low stock threshold
func (s *ProductService) LowStock(ctx context.Context, limit int) ([]ProductResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	products, err := s.products.FindLowStock(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, nil
}

// invalidateProducts drops cached product entries after a mutation
func (s *ProductService) invalidateProducts(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, cache.PrefixProducts); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func joinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ",")
}
