package settings

import "time"

// ConstantResponse represents a constant in API responses
type ConstantResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpsertConstantRequest creates or updates a constant
type UpsertConstantRequest struct {
	Key         string `json:"key" binding:"required,max=100"`
	Value       string `json:"value" binding:"required,max=500"`
	Description string `json:"description" binding:"omitempty,max=500"`
}
