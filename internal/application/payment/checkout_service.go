package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
)

// CheckoutService drives the two-phase provider checkout: a pending
// order is created alongside the provider payment session, and capture
// confirms the order once the customer approves.
type CheckoutService struct {
	gateway  payment.Gateway
	orders   order.Repository
	orderSvc *apporder.OrderService
	logger   *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(gateway payment.Gateway, orders order.Repository, orderSvc *apporder.OrderService, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		gateway:  gateway,
		orders:   orders,
		orderSvc: orderSvc,
		logger:   logger,
	}
}

// CreatePayment places a pending order and opens a provider payment
// session for it. If the provider rejects the session the order is
// cancelled and its stock returned, so a failed checkout leaves nothing
// behind.
func (s *CheckoutService) CreatePayment(ctx context.Context, userID uuid.UUID, req apporder.CreateOrderRequest) (*CreatePaymentResponse, error) {
	req.PaymentMethod = string(order.MethodPayPal)
	req.PaymentID = ""

	orderResp, err := s.orderSvc.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	items := make([]payment.Item, 0, len(orderResp.Items))
	for _, it := range orderResp.Items {
		items = append(items, payment.Item{
			Name:      it.ProductName,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Currency:  orderResp.Currency,
		})
	}

	session, err := s.gateway.CreatePayment(ctx, &payment.CreatePaymentRequest{
		ReferenceID: orderResp.Number,
		Description: fmt.Sprintf("Order %s", orderResp.Number),
		Items:       items,
		Subtotal:    orderResp.Subtotal.Sub(orderResp.DiscountAmount),
		Tax:         orderResp.TaxAmount,
		Shipping:    orderResp.ShippingCost,
		Total:       orderResp.TotalAmount,
		Currency:    orderResp.Currency,
	})
	if err != nil {
		s.logger.Error("provider rejected payment session",
			zap.String("number", orderResp.Number), zap.Error(err))
		s.abandonOrder(ctx, orderResp.ID)
		return nil, shared.NewDomainError("PAYMENT_FAILED", "payment provider rejected the payment")
	}

	// Remember the session so capture can verify it belongs to this order
	o, err := s.orders.FindByID(ctx, orderResp.ID)
	if err != nil {
		return nil, err
	}
	o.PaymentID = session.PaymentID
	o.Touch()
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("payment session created",
		zap.String("number", orderResp.Number),
		zap.String("payment_id", session.PaymentID))

	updated := apporder.ToOrderResponse(o)
	return &CreatePaymentResponse{
		Order:       updated,
		PaymentID:   session.PaymentID,
		ApprovalURL: session.ApprovalURL,
		State:       session.State,
	}, nil
}

// ExecutePayment captures an approved session and confirms the order.
// A declined capture marks the payment failed but keeps the order
// pending for a retry.
func (s *CheckoutService) ExecutePayment(ctx context.Context, userID uuid.UUID, isAdmin bool, req ExecutePaymentRequest) (*ExecutePaymentResponse, error) {
	o, err := s.orders.FindByNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, shared.ErrNotFound
	}
	if o.PaymentID != req.PaymentID {
		return nil, shared.NewDomainError("INVALID_INPUT", "payment does not belong to this order")
	}
	if o.PaymentStatus == order.PaymentPaid {
		resp := apporder.ToOrderResponse(o)
		return &ExecutePaymentResponse{Order: resp, State: "approved"}, nil
	}

	result, err := s.gateway.ExecutePayment(ctx, &payment.ExecutePaymentRequest{
		PaymentID: req.PaymentID,
		PayerID:   req.PayerID,
	})
	if err != nil {
		s.logger.Warn("payment capture failed",
			zap.String("number", o.Number), zap.Error(err))
		o.MarkPaymentFailed()
		if saveErr := s.orders.Save(ctx, o); saveErr != nil {
			s.logger.Error("failed to record payment failure",
				zap.String("number", o.Number), zap.Error(saveErr))
		}
		return nil, shared.NewDomainError("PAYMENT_FAILED", "payment capture was declined")
	}

	if err := o.MarkPaid(result.TransactionID); err != nil {
		return nil, err
	}
	if err := o.Confirm(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("payment captured",
		zap.String("number", o.Number),
		zap.String("transaction_id", result.TransactionID))

	resp := apporder.ToOrderResponse(o)
	return &ExecutePaymentResponse{
		Order:         resp,
		TransactionID: result.TransactionID,
		State:         result.State,
	}, nil
}

// HandleWebhook processes an asynchronous provider notification
func (s *CheckoutService) HandleWebhook(ctx context.Context, payload []byte) (*WebhookResponse, error) {
	event, err := s.gateway.ParseWebhookEvent(payload)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "unrecognized webhook payload")
	}

	s.logger.Info("payment webhook received",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("resource_id", event.ResourceID),
		zap.String("summary", event.Summary))

	return &WebhookResponse{
		EventID:   event.ID,
		EventType: event.EventType,
	}, nil
}

// abandonOrder cancels an order whose payment session never opened
func (s *CheckoutService) abandonOrder(ctx context.Context, orderID uuid.UUID) {
	if _, err := s.orderSvc.UpdateStatus(ctx, orderID, apporder.UpdateOrderStatusRequest{
		Status: string(order.StatusCancelled),
	}); err != nil {
		s.logger.Error("failed to cancel abandoned order",
			zap.String("order_id", orderID.String()), zap.Error(err))
	}
}
