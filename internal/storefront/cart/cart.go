package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Item is a cart line. UnitPrice is the catalog price at the time the
// item was added.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns unit price times quantity
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Persistence stores the full cart item list after every mutation
type Persistence interface {
	Save(items []Item) error
	Load() ([]Item, error)
}

// Store is an in-memory cart keyed by product ID with insertion order
// preserved for rendering. Every mutation writes the full list through
// the Persistence so a restart round-trips the cart exactly.
type Store struct {
	mu      sync.Mutex
	items   map[string]*Item
	order   []string
	persist Persistence
}

// NewStore creates a cart backed by the given persistence and restores
// any previously saved items.
func NewStore(persist Persistence) (*Store, error) {
	s := &Store{
		items:   make(map[string]*Item),
		order:   make([]string, 0),
		persist: persist,
	}
	saved, err := persist.Load()
	if err != nil {
		return nil, err
	}
	for _, it := range saved {
		if it.ProductID == "" || it.Quantity <= 0 {
			continue
		}
		copied := it
		s.items[it.ProductID] = &copied
		s.order = append(s.order, it.ProductID)
	}
	return s, nil
}

// Add merges the item into the cart. An existing line gains one unit;
// a new product is appended with quantity one.
func (s *Store) Add(item Item) error {
	if item.ProductID == "" {
		return shared.NewDomainError("INVALID_ITEM", "cart item requires a product ID")
	}
	if item.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "cart item price cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.items[item.ProductID]; ok {
		existing.Quantity++
	} else {
		item.Quantity = 1
		s.items[item.ProductID] = &item
		s.order = append(s.order, item.ProductID)
	}
	return s.save()
}

// Remove deletes a line; removing an absent product is a no-op
func (s *Store) Remove(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[productID]; !ok {
		return nil
	}
	delete(s.items, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return s.save()
}

// SetQuantity sets a line's quantity; zero or negative removes the line
func (s *Store) SetQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[productID]
	if !ok {
		return shared.ErrNotFound
	}
	item.Quantity = quantity
	return s.save()
}

// Clear empties the cart
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*Item)
	s.order = s.order[:0]
	return s.save()
}

// Items returns the cart lines in insertion order
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Total returns the sum of line totals
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, id := range s.order {
		total = total.Add(s.items[id].LineTotal())
	}
	return total
}

// Count returns the total unit count across all lines
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order) == 0
}

// snapshot copies the items in insertion order. Caller must hold the lock.
func (s *Store) snapshot() []Item {
	items := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, *s.items[id])
	}
	return items
}

// save persists the current item list. Caller must hold the lock.
func (s *Store) save() error {
	return s.persist.Save(s.snapshot())
}
