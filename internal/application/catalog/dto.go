package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	SKU            string          `json:"sku"`
	Description    string          `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	CompareAtPrice decimal.Decimal `json:"compare_at_price"`
	StockQuantity  int             `json:"stock_quantity"`
	InStock        bool            `json:"in_stock"`
	LowStock       bool            `json:"low_stock"`
	CategoryID     *uuid.UUID      `json:"category_id,omitempty"`
	Brand          string          `json:"brand,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	ImageURL       string          `json:"image_url,omitempty"`
	IsActive       bool            `json:"is_active"`
	IsFeatured     bool            `json:"is_featured"`
	ViewCount      int64           `json:"view_count"`
	SalesCount     int64           `json:"sales_count"`
	AverageRating  decimal.Decimal `json:"average_rating"`
	RatingCount    int64           `json:"rating_count"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product entity to its response form
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		SKU:            p.SKU,
		Description:    p.Description,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		StockQuantity:  p.StockQuantity,
		InStock:        p.InStock(),
		LowStock:       p.IsLowStock(),
		CategoryID:     p.CategoryID,
		Brand:          p.Brand,
		Tags:           p.TagList(),
		ImageURL:       p.ImageURL,
		IsActive:       p.IsActive,
		IsFeatured:     p.IsFeatured,
		ViewCount:      p.ViewCount,
		SalesCount:     p.SalesCount,
		AverageRating:  p.AverageRating(),
		RatingCount:    p.RatingCount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// CreateProductRequest creates a new product
type CreateProductRequest struct {
	Name              string   `json:"name" binding:"required,max=200"`
	SKU               string   `json:"sku" binding:"required,max=50"`
	Description       string   `json:"description"`
	Price             string   `json:"price" binding:"required"`
	CompareAtPrice    string   `json:"compare_at_price"`
	CostPrice         string   `json:"cost_price"`
	StockQuantity     int      `json:"stock_quantity" binding:"omitempty,gte=0"`
	LowStockThreshold int      `json:"low_stock_threshold" binding:"omitempty,gte=0"`
	TrackInventory    *bool    `json:"track_inventory"`
	CategoryID        string   `json:"category_id" binding:"omitempty,uuid"`
	Brand             string   `json:"brand" binding:"omitempty,max=100"`
	Tags              []string `json:"tags"`
	ImageURL          string   `json:"image_url" binding:"omitempty,max=500"`
	IsFeatured        bool     `json:"is_featured"`
}

// UpdateProductRequest updates an existing product
type UpdateProductRequest struct {
	Name              string   `json:"name" binding:"required,max=200"`
	Description       string   `json:"description"`
	Price             string   `json:"price" binding:"required"`
	CompareAtPrice    string   `json:"compare_at_price"`
	StockQuantity     *int     `json:"stock_quantity" binding:"omitempty,gte=0"`
	LowStockThreshold *int     `json:"low_stock_threshold" binding:"omitempty,gte=0"`
	TrackInventory    *bool    `json:"track_inventory"`
	CategoryID        string   `json:"category_id" binding:"omitempty,uuid"`
	Brand             string   `json:"brand" binding:"omitempty,max=100"`
	Tags              []string `json:"tags"`
	ImageURL          string   `json:"image_url" binding:"omitempty,max=500"`
	IsFeatured        *bool    `json:"is_featured"`
}

// ListProductsQuery filters the product listing
type ListProductsQuery struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	CategoryID string
	Brand      string
	InStock    bool
	Featured   bool
	// IncludeInactive exposes hidden products; admin listings only
	IncludeInactive bool
}

// RateProductRequest submits a star rating
type RateProductRequest struct {
	Stars int `json:"stars" binding:"required,gte=1,lte=5"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a category entity to its response form
func ToCategoryResponse(c *catalog.Category, productCount int64) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		ImageURL:     c.ImageURL,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		ProductCount: productCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// CreateCategoryRequest creates a new category
type CreateCategoryRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url" binding:"omitempty,max=500"`
	DisplayOrder int    `json:"display_order"`
}

// UpdateCategoryRequest updates an existing category
type UpdateCategoryRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url" binding:"omitempty,max=500"`
	DisplayOrder *int   `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}
