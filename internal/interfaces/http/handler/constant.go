package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/application/settings"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ConstantHandler exposes store constants. The public map drives
// storefront pricing; editing is admin-only.
type ConstantHandler struct {
	BaseHandler
	constants *settings.ConstantService
}

// NewConstantHandler creates a new ConstantHandler
func NewConstantHandler(constants *settings.ConstantService) *ConstantHandler {
	return &ConstantHandler{constants: constants}
}

// RegisterRoutes registers constant routes
func (h *ConstantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/constants", h.All)

	admin := rg.Group("/admin/constants", middleware.AdminOnly())
	{
		admin.GET("", h.List)
		admin.PUT("", h.Upsert)
		admin.DELETE("/:key", h.Delete)
	}
}

// All returns every constant as a key to value map
func (h *ConstantHandler) All(c *gin.Context) {
	m, err := h.constants.All(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, m)
}

// List returns all constants with descriptions for the admin view
func (h *ConstantHandler) List(c *gin.Context) {
	constants, err := h.constants.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, constants)
}

// Upsert creates or updates a constant
func (h *ConstantHandler) Upsert(c *gin.Context) {
	var req settings.UpsertConstantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	constant, err := h.constants.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, constant)
}

// Delete removes a constant
func (h *ConstantHandler) Delete(c *gin.Context) {
	if err := h.constants.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
