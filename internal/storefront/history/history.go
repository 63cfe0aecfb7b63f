package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/storefront/api"
)

// storageKey is the top-level key inside the persisted JSON document
const storageKey = "orders"

// Store persists placed orders locally. It is the fallback read path
// for order history when the backend is unreachable.
type Store struct {
	path string
}

// NewStore creates a file-backed order history at the given path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Append adds an order to the history
func (s *Store) Append(order api.Order) error {
	orders, err := s.List()
	if err != nil {
		return err
	}
	orders = append(orders, order)
	return s.write(orders)
}

// List returns all recorded orders, oldest first
func (s *Store) List() ([]api.Order, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read order history: %w", err)
	}

	var doc map[string][]api.Order
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode order history: %w", err)
	}
	return doc[storageKey], nil
}

// Get looks up a recorded order by its order number
func (s *Store) Get(number string) (*api.Order, bool, error) {
	orders, err := s.List()
	if err != nil {
		return nil, false, err
	}
	for i := range orders {
		if orders[i].Number == number {
			return &orders[i], true, nil
		}
	}
	return nil, false, nil
}

func (s *Store) write(orders []api.Order) error {
	doc := map[string][]api.Order{storageKey: orders}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode order history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".orders-*.json")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write order history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

// Recorder writes placed orders to the local history and mirrors
// unsynced orders to the backend on a best-effort basis. The local
// append is the source of truth; remote failures only log a warning.
type Recorder struct {
	store  *Store
	client *api.Client
	logger *zap.Logger
}

// NewRecorder creates a Recorder. The client may be nil for a purely
// local history.
func NewRecorder(store *Store, client *api.Client, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, client: client, logger: logger}
}

// Record appends the order locally, then pushes it to the backend when
// the client is authenticated and the order has no server ID yet.
// Orders already accepted by the server carry an ID and are not
// re-posted.
func (r *Recorder) Record(ctx context.Context, order api.Order) error {
	if err := r.store.Append(order); err != nil {
		return err
	}

	if r.client == nil || !r.client.HasToken() || order.ID != "" {
		return nil
	}

	req := api.CreateOrderRequest{
		Items:           make([]api.OrderItemInput, 0, len(order.Items)),
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		Number:          order.Number,
		PaymentID:       order.PaymentID,
	}
	for _, it := range order.Items {
		req.Items = append(req.Items, api.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	if _, err := r.client.CreateOrder(ctx, req); err != nil {
		r.logger.Warn("order sync failed, kept locally",
			zap.String("number", order.Number),
			zap.Error(err))
	}
	return nil
}
