package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
)

// DashboardSummary aggregates the headline numbers for the admin view
type DashboardSummary struct {
	TotalOrders    int64           `json:"total_orders"`
	PendingOrders  int64           `json:"pending_orders"`
	PaidOrders     int64           `json:"paid_orders"`
	Revenue        decimal.Decimal `json:"revenue"`
	TotalCustomers int64           `json:"total_customers"`
	ActiveProducts int64           `json:"active_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	AverageOrder   decimal.Decimal `json:"average_order"`
}

// DailySales is one day's order count and revenue
type DailySales struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ReportService computes read-only aggregates for the admin dashboard.
// It queries the database directly; the numbers are derived views with
// no business rules of their own.
type ReportService struct {
	db       *gorm.DB
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(db *gorm.DB, products catalog.ProductRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{db: db, products: products, logger: logger}
}

// Dashboard returns the headline aggregates
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{
		Revenue:      decimal.Zero,
		AverageOrder: decimal.Zero,
	}
	db := s.db.WithContext(ctx)

	if err := db.Model(&order.Order{}).Count(&summary.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&order.Order{}).
		Where("status = ?", order.StatusPending).
		Count(&summary.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&order.Order{}).
		Where("payment_status = ?", order.PaymentPaid).
		Count(&summary.PaidOrders).Error; err != nil {
		return nil, err
	}

	var revenue decimal.NullDecimal
	if err := db.Model(&order.Order{}).
		Where("payment_status = ?", order.PaymentPaid).
		Select("SUM(total_amount)").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue.Valid {
		summary.Revenue = revenue.Decimal
	}
	if summary.PaidOrders > 0 {
		summary.AverageOrder = summary.Revenue.
			Div(decimal.NewFromInt(summary.PaidOrders)).
			Round(2)
	}

	if err := db.Table("users").Where("is_admin = ?", false).
		Count(&summary.TotalCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&catalog.Product{}).
		Where("is_active = ?", true).
		Count(&summary.ActiveProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&catalog.Product{}).
		Where("track_inventory = ? AND stock_quantity <= low_stock_threshold", true).
		Count(&summary.LowStockCount).Error; err != nil {
		return nil, err
	}

	return summary, nil
}

// SalesSeries returns daily order counts and paid revenue for the last
// N days, oldest first. Days without orders are filled with zeros.
func (s *ReportService) SalesSeries(ctx context.Context, days int) ([]DailySales, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	var rows []struct {
		Day     time.Time
		Orders  int64
		Revenue decimal.NullDecimal
	}
	err := s.db.WithContext(ctx).
		Model(&order.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS orders, SUM(CASE WHEN payment_status = ? THEN total_amount ELSE 0 END) AS revenue", order.PaymentPaid).
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]DailySales, len(rows))
	for _, r := range rows {
		entry := DailySales{
			Date:    r.Day.Format("2006-01-02"),
			Orders:  r.Orders,
			Revenue: decimal.Zero,
		}
		if r.Revenue.Valid {
			entry.Revenue = r.Revenue.Decimal
		}
		byDay[entry.Date] = entry
	}

	series := make([]DailySales, 0, days)
	for i := 0; i < days; i++ {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		if entry, ok := byDay[date]; ok {
			series = append(series, entry)
		} else {
			series = append(series, DailySales{Date: date, Revenue: decimal.Zero})
		}
	}
	return series, nil
}

// TopSelling returns the best selling products
func (s *ReportService) TopSelling(ctx context.Context, limit int) ([]appcatalog.ProductResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	products, err := s.products.FindTopSelling(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]appcatalog.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, appcatalog.ToProductResponse(&products[i]))
	}
	return responses, nil
}
