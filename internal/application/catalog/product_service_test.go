package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
)

// memProductRepo is an in-memory catalog.ProductRepository
type memProductRepo struct {
	products  map[uuid.UUID]*catalog.Product
	pageCalls int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAll(_ context.Context, filter shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		if active, ok := filter.Filters["is_active"].(bool); ok && p.IsActive != active {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r *memProductRepo) FindBySlug(_ context.Context, slug string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			copied := *p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindPage(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.Product], error) {
	r.pageCalls++
	all, _ := r.FindAll(ctx, filter)
	return shared.NewPaginated(all, int64(len(all)), filter.Page, filter.PageSize), nil
}

func (r *memProductRepo) IncrementViewCount(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.ViewCount++
	}
	return nil
}

func (r *memProductRepo) FindLowStock(_ context.Context, limit int) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0)
	for _, p := range r.products {
		if p.TrackInventory && p.StockQuantity <= p.LowStockThreshold {
			out = append(out, *p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memProductRepo) FindTopSelling(_ context.Context, _ int) ([]catalog.Product, error) {
	return nil, nil
}

// memCategoryRepo is an in-memory catalog.CategoryRepository
type memCategoryRepo struct {
	categories    map[uuid.UUID]*catalog.Category
	productCounts map[uuid.UUID]int64
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{
		categories:    make(map[uuid.UUID]*catalog.Category),
		productCounts: make(map[uuid.UUID]int64),
	}
}

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	if c, ok := r.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) FindAll(_ context.Context, filter shared.Filter) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if active, ok := filter.Filters["is_active"].(bool); ok && c.IsActive != active {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCategoryRepo) Save(_ context.Context, c *catalog.Category) error {
	copied := *c
	r.categories[c.ID] = &copied
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *memCategoryRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.categories)), nil
}

func (r *memCategoryRepo) FindBySlug(_ context.Context, slug string) (*catalog.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) CountProducts(_ context.Context, categoryID uuid.UUID) (int64, error) {
	return r.productCounts[categoryID], nil
}

// memRatingRepo is an in-memory catalog.RatingRepository
type memRatingRepo struct {
	ratings map[string]*catalog.Rating
}

func newMemRatingRepo() *memRatingRepo {
	return &memRatingRepo{ratings: make(map[string]*catalog.Rating)}
}

func ratingKey(productID, userID uuid.UUID) string {
	return productID.String() + "/" + userID.String()
}

func (r *memRatingRepo) FindByProductAndUser(_ context.Context, productID, userID uuid.UUID) (*catalog.Rating, error) {
	if rating, ok := r.ratings[ratingKey(productID, userID)]; ok {
		copied := *rating
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memRatingRepo) Save(_ context.Context, rating *catalog.Rating) error {
	copied := *rating
	r.ratings[ratingKey(rating.ProductID, rating.UserID)] = &copied
	return nil
}

type productFixture struct {
	service    *ProductService
	products   *memProductRepo
	categories *memCategoryRepo
	ratings    *memRatingRepo
	cache      cache.Cache
}

func newProductFixture() *productFixture {
	products := newMemProductRepo()
	categories := newMemCategoryRepo()
	ratings := newMemRatingRepo()
	c := cache.NewMemoryCache()

	return &productFixture{
		service:    NewProductService(products, categories, ratings, c, time.Minute, nil),
		products:   products,
		categories: categories,
		ratings:    ratings,
		cache:      c,
	}
}

func createKeyboard(t *testing.T, f *productFixture) *ProductResponse {
	resp, err := f.service.Create(context.Background(), CreateProductRequest{
		Name:          "Mechanical Keyboard",
		SKU:           "KB-100",
		Price:         "49.99",
		StockQuantity: 10,
	})
	require.NoError(t, err)
	return resp
}

func TestProductService_Create(t *testing.T) {
	f := newProductFixture()

	resp := createKeyboard(t, f)

	assert.Equal(t, "mechanical-keyboard", resp.Slug)
	assert.Equal(t, "KB-100", resp.SKU)
	assert.Equal(t, "49.99", resp.Price.StringFixed(2))
	assert.Equal(t, 10, resp.StockQuantity)
	assert.True(t, resp.IsActive)
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	f := newProductFixture()
	createKeyboard(t, f)

	_, err := f.service.Create(context.Background(), CreateProductRequest{
		Name:  "Another Keyboard",
		SKU:   "KB-100",
		Price: "59.99",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestProductService_Create_InvalidPrice(t *testing.T) {
	f := newProductFixture()

	_, err := f.service.Create(context.Background(), CreateProductRequest{
		Name:  "Mechanical Keyboard",
		SKU:   "KB-100",
		Price: "not-a-number",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PRICE", domainErr.Code)
}

func TestProductService_Create_UnknownCategory(t *testing.T) {
	f := newProductFixture()

	_, err := f.service.Create(context.Background(), CreateProductRequest{
		Name:       "Mechanical Keyboard",
		SKU:        "KB-100",
		Price:      "49.99",
		CategoryID: uuid.NewString(),
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestProductService_GetBySlug(t *testing.T) {
	f := newProductFixture()
	created := createKeyboard(t, f)

	resp, err := f.service.GetBySlug(context.Background(), "mechanical-keyboard")
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)

	// View counted even on cache hits
	_, err = f.service.GetBySlug(context.Background(), "mechanical-keyboard")
	require.NoError(t, err)

	stored, err := f.products.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.ViewCount)
}

func TestProductService_GetBySlug_HidesInactive(t *testing.T) {
	f := newProductFixture()
	created := createKeyboard(t, f)

	_, err := f.service.SetActive(context.Background(), created.ID, false)
	require.NoError(t, err)

	_, err = f.service.GetBySlug(context.Background(), "mechanical-keyboard")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_Update_InvalidatesCache(t *testing.T) {
	f := newProductFixture()
	created := createKeyboard(t, f)

	// Prime the cache
	_, err := f.service.GetBySlug(context.Background(), "mechanical-keyboard")
	require.NoError(t, err)

	_, err = f.service.Update(context.Background(), created.ID, UpdateProductRequest{
		Name:  "Mechanical Keyboard",
		Price: "59.99",
	})
	require.NoError(t, err)

	resp, err := f.service.GetBySlug(context.Background(), "mechanical-keyboard")
	require.NoError(t, err)
	assert.Equal(t, "59.99", resp.Price.StringFixed(2))
}

func TestProductService_List_HidesInactiveByDefault(t *testing.T) {
	f := newProductFixture()
	created := createKeyboard(t, f)

	_, err := f.service.SetActive(context.Background(), created.ID, false)
	require.NoError(t, err)

	page, err := f.service.List(context.Background(), ListProductsQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = f.service.List(context.Background(), ListProductsQuery{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestProductService_Rate(t *testing.T) {
	f := newProductFixture()
	created := createKeyboard(t, f)
	userID := uuid.New()

	resp, err := f.service.Rate(context.Background(), created.ID, userID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.RatingCount)
	assert.Equal(t, "4", resp.AverageRating.String())

	// Re-rating replaces the previous score instead of stacking
	resp, err = f.service.Rate(context.Background(), created.ID, userID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.RatingCount)
	assert.Equal(t, "5", resp.AverageRating.String())
}

func TestProductService_Delete(t *testing.T) {
	f := newProductFixture()
	created := createKeyboard(t, f)

	require.NoError(t, f.service.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, f.service.Delete(context.Background(), created.ID), shared.ErrNotFound)
}

func TestProductService_LowStock(t *testing.T) {
	f := newProductFixture()

	_, err := f.service.Create(context.Background(), CreateProductRequest{
		Name:          "Mouse",
		SKU:           "MS-200",
		Price:         "19.99",
		StockQuantity: 2,
	})
	require.NoError(t, err)
	createKeyboard(t, f)

	low, err := f.service.LowStock(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "MS-200", low[0].SKU)
}
