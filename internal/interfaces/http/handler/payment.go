package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// maxWebhookBody caps provider notification payloads
const maxWebhookBody = 1 << 20

// PaymentHandler drives the provider checkout flow
type PaymentHandler struct {
	BaseHandler
	checkout *payment.CheckoutService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(checkout *payment.CheckoutService) *PaymentHandler {
	return &PaymentHandler{checkout: checkout}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments/paypal")
	{
		payments.POST("/create-order", h.CreatePayment)
		payments.POST("/capture-order", h.ExecutePayment)
		// Webhook is called by the provider, not by a logged-in user
		payments.POST("/webhook", h.Webhook)
	}
}

// CreatePayment opens a provider payment session for a new order
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
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
	resp, err := h.checkout.CreatePayment(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ExecutePayment captures an approved payment and confirms the order
func (h *PaymentHandler) ExecutePayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req payment.ExecutePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.checkout.ExecutePayment(c.Request.Context(), userID, middleware.IsJWTAdmin(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Webhook receives asynchronous provider notifications
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Unable to read webhook payload")
		return
	}
	resp, err := h.checkout.HandleWebhook(c.Request.Context(), payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
