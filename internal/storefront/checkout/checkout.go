package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/storefront/api"
	"github.com/storefront/backend/internal/storefront/cart"
	"github.com/storefront/backend/internal/storefront/history"
	"github.com/storefront/backend/internal/storefront/pricing"
)

// State is the checkout lifecycle phase
type State string

const (
	StateEditing    State = "EDITING"
	StateValidating State = "VALIDATING"
	StateProcessing State = "PROCESSING"
	StatePlaced     State = "PLACED"
	StateFailed     State = "FAILED"
)

// Payment methods accepted by the orchestrator
const (
	MethodCard   = "CARD"
	MethodPayPal = "PAYPAL"
)

// ErrCheckoutInProgress rejects re-entrant checkout attempts
var ErrCheckoutInProgress = shared.NewDomainError("CHECKOUT_IN_PROGRESS", "a checkout is already in progress")

// ErrEmptyCart rejects checkout of an empty cart
var ErrEmptyCart = shared.NewDomainError("EMPTY_CART", "cart is empty")

// ShippingDetails is the address collected at checkout
type ShippingDetails struct {
	FullName   string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// CardDetails is the card input for the simulated card path
type CardDetails struct {
	Number string
	Expiry string
	CVC    string
}

// PaymentSession is the ephemeral provider handle between create and
// capture. It is never persisted.
type PaymentSession struct {
	OrderNumber string
	PaymentID   string
	PayerID     string
	ApprovalURL string
}

// Orchestrator drives a cart through validation, payment and order
// placement. It is reusable: a failed attempt returns to editing with
// the cart untouched.
type Orchestrator struct {
	mu       sync.Mutex
	state    State
	inFlight bool

	cart      *cart.Store
	client    *api.Client
	recorder  *history.Recorder
	constants pricing.Constants

	now             func() time.Time
	sleep           func(time.Duration)
	processingDelay time.Duration
	logger          *zap.Logger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithNow injects the clock used for order numbers
func WithNow(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithSleep injects the delay function used by the simulated card path
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *Orchestrator) {
		o.sleep = sleep
	}
}

// WithProcessingDelay sets the simulated card processing time
func WithProcessingDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.processingDelay = d
	}
}

// WithLogger sets the orchestrator logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator over the given cart, API client and
// order recorder.
func New(cartStore *cart.Store, client *api.Client, recorder *history.Recorder, constants pricing.Constants, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		state:           StateEditing,
		cart:            cartStore,
		client:          client,
		recorder:        recorder,
		constants:       constants,
		now:             time.Now,
		sleep:           time.Sleep,
		processingDelay: 1500 * time.Millisecond,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current checkout phase
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// begin claims the in-flight slot and moves to validating
func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return ErrCheckoutInProgress
	}
	o.inFlight = true
	o.state = StateValidating
	return nil
}

func (o *Orchestrator) finish(state State) {
	o.mu.Lock()
	o.inFlight = false
	o.state = state
	o.mu.Unlock()
}

func (o *Orchestrator) setState(state State) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

// CheckoutCard runs the simulated card payment path: validate, wait
// out the processing delay, then place the order. The order is synced
// to the backend on a best-effort basis; a backend failure still
// yields a locally recorded order.
func (o *Orchestrator) CheckoutCard(ctx context.Context, shipping ShippingDetails, card CardDetails) (*api.Order, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}

	if o.cart.IsEmpty() {
		o.finish(StateFailed)
		return nil, ErrEmptyCart
	}
	if err := validateShipping(shipping); err != nil {
		o.finish(StateEditing)
		return nil, err
	}
	if strings.TrimSpace(card.Number) == "" {
		o.finish(StateEditing)
		return nil, shared.NewDomainError("INVALID_CARD", "card number is required")
	}

	o.setState(StateProcessing)
	o.sleep(o.processingDelay)

	placedAt := o.now()
	order := o.buildSnapshot(shipping, MethodCard, placedAt)
	order.PaymentID = fmt.Sprintf("CARD-%d", placedAt.UnixNano())

	if o.client != nil && o.client.HasToken() {
		remote, err := o.client.CreateOrder(ctx, api.CreateOrderRequest{
			Items:           itemInputs(o.cart.Items()),
			ShippingAddress: order.ShippingAddress,
			PaymentMethod:   MethodCard,
			Number:          order.Number,
			PaymentID:       order.PaymentID,
		})
		if err != nil {
			o.logger.Warn("card order sync failed, keeping local order",
				zap.String("number", order.Number),
				zap.Error(err))
		} else {
			order = *remote
		}
	}

	if err := o.recorder.Record(ctx, order); err != nil {
		o.finish(StateFailed)
		return nil, err
	}
	if err := o.cart.Clear(); err != nil {
		o.finish(StateFailed)
		return nil, err
	}

	o.finish(StatePlaced)
	return &order, nil
}

// CreatePayPalOrder validates the shipping input and opens a provider
// payment session. Invalid input fails closed: no session is created
// and nothing is charged.
func (o *Orchestrator) CreatePayPalOrder(ctx context.Context, shipping ShippingDetails) (*PaymentSession, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}

	if o.cart.IsEmpty() {
		o.finish(StateFailed)
		return nil, ErrEmptyCart
	}
	if err := validateShipping(shipping); err != nil {
		o.finish(StateEditing)
		return nil, err
	}

	o.setState(StateProcessing)
	session, err := o.client.CreatePayPalOrder(ctx, api.CreateOrderRequest{
		Items:           itemInputs(o.cart.Items()),
		ShippingAddress: toAddress(shipping),
		PaymentMethod:   MethodPayPal,
	})
	if err != nil {
		o.finish(StateFailed)
		return nil, err
	}

	// The approval redirect happens out of band; the orchestrator
	// stays in-flight until capture or abandon.
	o.mu.Lock()
	o.inFlight = false
	o.mu.Unlock()

	return &PaymentSession{
		OrderNumber: session.Order.Number,
		PaymentID:   session.PaymentID,
		ApprovalURL: session.ApprovalURL,
	}, nil
}

// CapturePayPalOrder captures an approved provider payment. A capture
// failure keeps the cart intact and records nothing.
func (o *Orchestrator) CapturePayPalOrder(ctx context.Context, session PaymentSession) (*api.Order, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}

	if session.PaymentID == "" || session.PayerID == "" {
		o.finish(StateEditing)
		return nil, shared.NewDomainError("INVALID_SESSION", "payment session requires payment and payer IDs")
	}

	o.setState(StateProcessing)
	result, err := o.client.CapturePayPalOrder(ctx, api.CaptureOrderRequest{
		OrderNumber: session.OrderNumber,
		PaymentID:   session.PaymentID,
		PayerID:     session.PayerID,
	})
	if err != nil {
		o.finish(StateFailed)
		return nil, err
	}

	order := result.Order
	if err := o.recorder.Record(ctx, order); err != nil {
		o.finish(StateFailed)
		return nil, err
	}
	if err := o.cart.Clear(); err != nil {
		o.finish(StateFailed)
		return nil, err
	}

	o.finish(StatePlaced)
	return &order, nil
}

// buildSnapshot prices the current cart into a local order record
func (o *Orchestrator) buildSnapshot(shipping ShippingDetails, method string, placedAt time.Time) api.Order {
	items := o.cart.Items()
	breakdown := pricing.Calculate(o.cart.Total(), o.constants)

	orderItems := make([]api.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, api.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.Name,
			SKU:         it.SKU,
			ImageURL:    it.ImageURL,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.LineTotal(),
		})
	}

	return api.Order{
		Number:          fmt.Sprintf("ORD-%d", placedAt.Unix()),
		Items:           orderItems,
		Subtotal:        breakdown.Subtotal,
		TaxAmount:       breakdown.Tax,
		ShippingCost:    breakdown.Shipping,
		TotalAmount:     breakdown.Total,
		Status:          "CONFIRMED",
		PaymentStatus:   "PAID",
		PaymentMethod:   method,
		ShippingAddress: toAddress(shipping),
		CreatedAt:       placedAt,
	}
}

// validateShipping checks the required address fields before any
// network call is made.
func validateShipping(s ShippingDetails) error {
	var missing []string
	if strings.TrimSpace(s.Street) == "" {
		missing = append(missing, "street")
	}
	if strings.TrimSpace(s.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(s.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(s.PostalCode) == "" {
		missing = append(missing, "postal_code")
	}
	if len(missing) > 0 {
		return shared.NewDomainError("INVALID_ADDRESS", "missing required shipping fields: "+strings.Join(missing, ", "))
	}
	return nil
}

func toAddress(s ShippingDetails) api.Address {
	return api.Address{
		FullName:   s.FullName,
		Street:     s.Street,
		City:       s.City,
		State:      s.State,
		PostalCode: s.PostalCode,
		Country:    s.Country,
		Phone:      s.Phone,
	}
}

func itemInputs(items []cart.Item) []api.OrderItemInput {
	inputs := make([]api.OrderItemInput, 0, len(items))
	for _, it := range items {
		inputs = append(inputs, api.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return inputs
}
