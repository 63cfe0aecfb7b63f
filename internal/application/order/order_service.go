package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/settings"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderService handles order placement and lifecycle operations
type OrderService struct {
	scope     TransactionScope
	orders    order.Repository
	constants *settings.ConstantService
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(scope TransactionScope, orders order.Repository, constants *settings.ConstantService, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		scope:     scope,
		orders:    orders,
		constants: constants,
		logger:    logger,
	}
}

// Create places an order for the given user. Product snapshots, pricing
// and stock deduction happen server-side inside one transaction; the
// submitted cart only selects products and quantities.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	if err := req.ShippingAddress.Validate(); err != nil {
		return nil, err
	}

	discount := valueobject.ZeroUSD()
	if req.Discount != "" {
		d, err := decimal.NewFromString(req.Discount)
		if err != nil || d.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "discount is not a valid amount")
		}
		discount = valueobject.NewMoneyUSD(d)
	}

	rules := s.constants.PricingRules(ctx)

	var created *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		items, err := s.buildItems(ctx, repos, req.Items)
		if err != nil {
			return err
		}

		subtotal := valueobject.ZeroUSD()
		for _, it := range items {
			subtotal = subtotal.MustAdd(it.TotalPrice)
		}
		quote := pricing.Calculate(subtotal, discount, rules)

		number, err := s.resolveNumber(ctx, repos.OrderRepo(), req.Number)
		if err != nil {
			return err
		}

		o, err := order.NewOrder(userID, number, items, order.Amounts{
			Subtotal:     quote.Subtotal,
			TaxAmount:    quote.Tax,
			ShippingCost: quote.Shipping,
			Discount:     quote.Discount,
		}, req.ShippingAddress, order.PaymentMethod(req.PaymentMethod))
		if err != nil {
			return err
		}
		o.Notes = req.Notes

		// Orders submitted with a capture reference were paid before
		// reaching us, so they land confirmed.
		if req.PaymentID != "" {
			if err := o.MarkPaid(req.PaymentID); err != nil {
				return err
			}
			if err := o.Confirm(); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("number", created.Number),
		zap.String("user_id", userID.String()),
		zap.String("total", created.TotalAmount.String()),
		zap.Int("items", created.ItemCount()))

	resp := ToOrderResponse(created)
	return &resp, nil
}

// buildItems snapshots the requested products and deducts stock
func (s *OrderService) buildItems(ctx context.Context, repos TransactionalRepositories, lines []OrderItemRequest) ([]order.Item, error) {
	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "invalid product ID")
		}

		product, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("product %s not found", line.ProductID))
			}
			return nil, err
		}
		if !product.IsActive {
			return nil, shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("product %s is not available", product.Name))
		}

		if err := product.DeductStock(line.Quantity); err != nil {
			return nil, err
		}
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return nil, err
		}

		item, err := order.NewItem(product.ID, product.Name, product.SKU, product.ImageURL, line.Quantity, product.UnitPrice())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// resolveNumber settles on a unique order number. A requested number is
// honored when free; collisions get a numeric suffix.
func (s *OrderService) resolveNumber(ctx context.Context, repo order.Repository, requested string) (string, error) {
	base := requested
	if base == "" {
		base = order.NewNumber(time.Now())
	}

	candidate := base
	for i := 2; i <= 5; i++ {
		exists, err := repo.NumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	// Timestamp collisions beyond the suffix range get a random tail
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

// Get returns an order by ID, enforcing ownership for non-admin callers
func (s *OrderService) Get(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, shared.ErrNotFound
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByNumber returns an order by its number, enforcing ownership for
// non-admin callers.
func (s *OrderService) GetByNumber(ctx context.Context, number string, userID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	o, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, shared.ErrNotFound
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// ListMine returns the caller's order history, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, query ListOrdersQuery) (*shared.Paginated[OrderResponse], error) {
	filter := s.toFilter(query)
	page, err := s.orders.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return paginate(page), nil
}

// List returns orders across all users for the admin view
func (s *OrderService) List(ctx context.Context, query ListOrdersQuery) (*shared.Paginated[OrderResponse], error) {
	filter := s.toFilter(query)
	if query.UserID != "" {
		userID, err := uuid.Parse(query.UserID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "invalid user ID")
		}
		filter.Filters["user_id"] = userID
	}

	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return paginate(page), nil
}

// UpdateStatus applies an admin status change. Shipping accepts tracking
// details, and cancellation returns stock to the catalog.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	target := order.OrderStatus(req.Status)

	var updated *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		switch target {
		case order.StatusShipped:
			if err := o.Ship(req.TrackingNumber, req.Carrier); err != nil {
				return err
			}
		case order.StatusCancelled:
			if err := o.Cancel(); err != nil {
				return err
			}
			if err := s.restock(ctx, repos, o); err != nil {
				return err
			}
		default:
			if err := o.TransitionTo(target); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("number", updated.Number),
		zap.String("status", string(updated.Status)))

	resp := ToOrderResponse(updated)
	return &resp, nil
}

// restock returns cancelled quantities to inventory
func (s *OrderService) restock(ctx context.Context, repos TransactionalRepositories, o *order.Order) error {
	for _, it := range o.Items {
		product, err := repos.ProductRepo().FindByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// Product was deleted after the sale; nothing to return
				continue
			}
			return err
		}
		if err := product.RestockQuantity(it.Quantity); err != nil {
			return err
		}
		product.SalesCount -= int64(it.Quantity)
		if product.SalesCount < 0 {
			product.SalesCount = 0
		}
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) toFilter(query ListOrdersQuery) shared.Filter {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.OrderBy != "" {
		filter.OrderBy = query.OrderBy
	}
	if query.OrderDir != "" {
		filter.OrderDir = query.OrderDir
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.PaymentStatus != "" {
		filter.Filters["payment_status"] = query.PaymentStatus
	}
	if query.PaymentMethod != "" {
		filter.Filters["payment_method"] = query.PaymentMethod
	}
	return filter
}

func paginate(page shared.Paginated[order.Order]) *shared.Paginated[OrderResponse] {
	responses := make([]OrderResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, ToOrderResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result
}
