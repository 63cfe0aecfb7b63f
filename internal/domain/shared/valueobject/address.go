package valueobject

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Address is a value object representing a shipping address.
type Address struct {
	FullName   string `json:"full_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// Validate checks the required address fields. Street, city, state and
// postal code must be non-empty; name, country and phone are optional.
func (a Address) Validate() error {
	var missing []string
	if strings.TrimSpace(a.Street) == "" {
		missing = append(missing, "street")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		missing = append(missing, "postal_code")
	}
	if len(missing) > 0 {
		return shared.NewDomainError("INVALID_ADDRESS", "missing required address fields: "+strings.Join(missing, ", "))
	}
	return nil
}

// IsComplete returns true when all required fields are present
func (a Address) IsComplete() bool {
	return a.Validate() == nil
}

// OneLine renders the address as a single display line
func (a Address) OneLine() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}
