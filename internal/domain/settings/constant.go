package settings

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Well-known constant keys used by the storefront pricing flow
const (
	KeyTaxRate               = "tax"
	KeyShippingFee           = "shipping_fee"
	KeyFreeShippingThreshold = "free_shipping_threshold"
)

// Constant is a store-wide configuration value keyed by name.
// Values are stored as strings and interpreted by consumers.
type Constant struct {
	shared.BaseEntity
	Key         string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Value       string `gorm:"type:varchar(500);not null"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Constant) TableName() string {
	return "constants"
}

// NewConstant creates a constant after key validation
func NewConstant(key, value, description string) (*Constant, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_CONSTANT", "constant key is required")
	}
	return &Constant{
		BaseEntity:  shared.NewBaseEntity(),
		Key:         key,
		Value:       value,
		Description: description,
	}, nil
}

// SetValue updates the stored value
func (c *Constant) SetValue(value string) {
	c.Value = value
	c.Touch()
}
