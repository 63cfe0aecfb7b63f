package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Product represents a sellable item in the catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.BaseEntity
	Name              string          `gorm:"type:varchar(200);not null"`
	Slug              string          `gorm:"type:varchar(220);not null;uniqueIndex"`
	SKU               string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description       string          `gorm:"type:text"`
	Price             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CompareAtPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	StockQuantity     int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:5"`
	TrackInventory    bool            `gorm:"not null;default:true"`
	CategoryID        *uuid.UUID      `gorm:"type:uuid;index"`
	Brand             string          `gorm:"type:varchar(100)"`
	Tags              string          `gorm:"type:varchar(500)"` // comma separated
	ImageURL          string          `gorm:"type:varchar(500)"`
	IsActive          bool            `gorm:"not null;default:true;index"`
	IsFeatured        bool            `gorm:"not null;default:false"`
	ViewCount         int64           `gorm:"not null;default:0"`
	SalesCount        int64           `gorm:"not null;default:0"`
	RatingSum         int64           `gorm:"not null;default:0"`
	RatingCount       int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(name, sku string, price valueobject.Money) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "product name is required")
	}
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "product SKU is required")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "product price cannot be negative")
	}

	return &Product{
		BaseEntity:        shared.NewBaseEntity(),
		Name:              name,
		Slug:              Slugify(name),
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Price:             price.Amount(),
		CompareAtPrice:    decimal.Zero,
		CostPrice:         decimal.Zero,
		LowStockThreshold: 5,
		TrackInventory:    true,
		IsActive:          true,
	}, nil
}

// UnitPrice returns the selling price as Money
func (p *Product) UnitPrice() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// Update changes the product's basic information
func (p *Product) Update(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "product name is required")
	}
	p.Name = name
	p.Description = description
	p.Touch()
	return nil
}

// SetPrice changes the selling price
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "product price cannot be negative")
	}
	p.Price = price.Amount()
	p.Touch()
	return nil
}

// InStock reports whether the product can be purchased
func (p *Product) InStock() bool {
	if !p.TrackInventory {
		return true
	}
	return p.StockQuantity > 0
}

// IsLowStock reports whether stock has fallen to the alert threshold
func (p *Product) IsLowStock() bool {
	return p.TrackInventory && p.StockQuantity <= p.LowStockThreshold
}

// DeductStock removes sold quantity from inventory
func (p *Product) DeductStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "quantity must be positive")
	}
	if p.TrackInventory && p.StockQuantity < quantity {
		return shared.ErrInsufficientStock
	}
	if p.TrackInventory {
		p.StockQuantity -= quantity
	}
	p.SalesCount += int64(quantity)
	p.Touch()
	return nil
}

// RestockQuantity adds quantity back to inventory
func (p *Product) RestockQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "quantity must be positive")
	}
	p.StockQuantity += quantity
	p.Touch()
	return nil
}

// AddRating folds a 1-5 star rating into the running aggregate
func (p *Product) AddRating(stars int) error {
	if stars < 1 || stars > 5 {
		return shared.NewDomainError("INVALID_RATING", "rating must be between 1 and 5")
	}
	p.RatingSum += int64(stars)
	p.RatingCount++
	p.Touch()
	return nil
}

// ReplaceRating swaps a previous rating value for a new one
func (p *Product) ReplaceRating(oldStars, newStars int) error {
	if newStars < 1 || newStars > 5 {
		return shared.NewDomainError("INVALID_RATING", "rating must be between 1 and 5")
	}
	p.RatingSum += int64(newStars) - int64(oldStars)
	p.Touch()
	return nil
}

// AverageRating returns the mean rating, zero when unrated
func (p *Product) AverageRating() decimal.Decimal {
	if p.RatingCount == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(p.RatingSum).
		Div(decimal.NewFromInt(p.RatingCount)).
		Round(2)
}

// Activate makes the product visible in the storefront
func (p *Product) Activate() {
	p.IsActive = true
	p.Touch()
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

// TagList splits the stored tags into a slice
func (p *Product) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	parts := strings.Split(p.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, t := range parts {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
