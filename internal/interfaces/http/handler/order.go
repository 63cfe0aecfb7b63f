package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler serves customer order placement and history, plus the
// admin order management view.
type OrderHandler struct {
	BaseHandler
	orders *order.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *order.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customer := rg.Group("/orders")
	{
		customer.POST("", h.Create)
		customer.GET("", h.ListMine)
		customer.GET("/:id", h.Get)
		customer.GET("/number/:number", h.GetByNumber)
	}

	admin := rg.Group("/admin/orders", middleware.AdminOnly())
	{
		admin.GET("", h.AdminList)
		admin.PATCH("/:id/status", h.UpdateStatus)
	}
}

// Create places a new order for the authenticated customer
func (h *OrderHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	created, err := h.orders.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// ListMine returns the caller's order history
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	query, err := h.bindQuery(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	page, err := h.orders.ListMine(c.Request.Context(), userID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one order; customers only see their own
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.orders.Get(c.Request.Context(), id, userID, middleware.IsJWTAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber returns one order by its order number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.orders.GetByNumber(c.Request.Context(), c.Param("number"), userID, middleware.IsJWTAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdminList returns orders across all customers
func (h *OrderHandler) AdminList(c *gin.Context) {
	query, err := h.bindQuery(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	query.UserID = c.Query("user_id")
	page, err := h.orders.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateStatus applies an admin status change
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	var req order.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.orders.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *OrderHandler) bindQuery(c *gin.Context) (order.ListOrdersQuery, error) {
	listReq, err := bindListRequest(c)
	if err != nil {
		return order.ListOrdersQuery{}, err
	}
	return order.ListOrdersQuery{
		Page:          listReq.Page,
		PageSize:      listReq.PageSize,
		OrderBy:       listReq.OrderBy,
		OrderDir:      listReq.OrderDir,
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		PaymentMethod: c.Query("payment_method"),
	}, nil
}
