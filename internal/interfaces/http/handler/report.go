package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/application/report"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ReportHandler serves the admin analytics endpoints
type ReportHandler struct {
	BaseHandler
	reports *report.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *report.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/reports", middleware.AdminOnly())
	{
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/sales", h.Sales)
		admin.GET("/top-selling", h.TopSelling)
	}
}

// Dashboard returns the headline store aggregates
func (h *ReportHandler) Dashboard(c *gin.Context) {
	summary, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Sales returns the daily sales series
func (h *ReportHandler) Sales(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	series, err := h.reports.SalesSeries(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, series)
}

// TopSelling returns the best selling products
func (h *ReportHandler) TopSelling(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := h.reports.TopSelling(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}
