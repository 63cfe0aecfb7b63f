package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups products for storefront navigation
type Category struct {
	shared.BaseEntity
	Name         string `gorm:"type:varchar(100);not null"`
	Slug         string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description  string `gorm:"type:text"`
	ImageURL     string `gorm:"type:varchar(500)"`
	DisplayOrder int    `gorm:"not null;default:0"`
	IsActive     bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new active category
func NewCategory(name, description string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "category name is required")
	}
	return &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Slug:        Slugify(name),
		Description: description,
		IsActive:    true,
	}, nil
}

// Update changes the category's information
func (c *Category) Update(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "category name is required")
	}
	c.Name = name
	c.Description = description
	c.Touch()
	return nil
}
