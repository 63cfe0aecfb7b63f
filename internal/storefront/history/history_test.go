package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/storefront/api"
)

func testOrder(number string) api.Order {
	return api.Order{
		Number:        number,
		TotalAmount:   decimal.NewFromFloat(54.99),
		Status:        "CONFIRMED",
		PaymentStatus: "PAID",
		PaymentMethod: "CARD",
		CreatedAt:     time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		Items: []api.OrderItem{
			{ProductID: "p1", ProductName: "Keyboard", Quantity: 1, UnitPrice: decimal.NewFromFloat(49.99)},
		},
	}
}

func TestStore_AppendAndList(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "orders.json"))

	require.NoError(t, store.Append(testOrder("ORD-1000")))
	require.NoError(t, store.Append(testOrder("ORD-1001")))

	orders, err := store.List()
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-1000", orders[0].Number)
	assert.Equal(t, "ORD-1001", orders[1].Number)
}

func TestStore_ListMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "orders.json"))

	orders, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStore_Get(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "orders.json"))
	require.NoError(t, store.Append(testOrder("ORD-1000")))

	order, found, err := store.Get("ORD-1000")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ORD-1000", order.Number)

	_, found, err = store.Get("ORD-9999")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_FileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	store := NewStore(path)
	require.NoError(t, store.Append(testOrder("ORD-1000")))

	// The document keeps orders under a fixed top-level key
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "orders")
}

func TestRecorder_LocalOnly(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "orders.json"))
	recorder := NewRecorder(store, nil, nil)

	require.NoError(t, recorder.Record(context.Background(), testOrder("ORD-1000")))

	orders, err := store.List()
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestRecorder_SyncsUnsyncedOrders(t *testing.T) {
	var posted int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/orders", r.URL.Path)
		posted++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "data": {"id": "srv-1", "number": "ORD-1000"}}`))
	}))
	defer server.Close()

	store := NewStore(filepath.Join(t.TempDir(), "orders.json"))
	client := api.NewClient(server.URL, api.WithToken("token"))
	recorder := NewRecorder(store, client, nil)

	require.NoError(t, recorder.Record(context.Background(), testOrder("ORD-1000")))
	assert.Equal(t, 1, posted)
}

func TestRecorder_SkipsOrdersWithServerID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server-accepted orders must not be re-posted")
	}))
	defer server.Close()

	store := NewStore(filepath.Join(t.TempDir(), "orders.json"))
	client := api.NewClient(server.URL, api.WithToken("token"))
	recorder := NewRecorder(store, client, nil)

	order := testOrder("ORD-1000")
	order.ID = "srv-1"
	require.NoError(t, recorder.Record(context.Background(), order))
}

func TestRecorder_SkipsWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("anonymous sessions must not sync orders")
	}))
	defer server.Close()

	store := NewStore(filepath.Join(t.TempDir(), "orders.json"))
	recorder := NewRecorder(store, api.NewClient(server.URL), nil)

	require.NoError(t, recorder.Record(context.Background(), testOrder("ORD-1000")))
}

func TestRecorder_KeepsLocalOnSyncFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	store := NewStore(filepath.Join(t.TempDir(), "orders.json"))
	client := api.NewClient(server.URL, api.WithToken("token"))
	recorder := NewRecorder(store, client, nil)

	require.NoError(t, recorder.Record(context.Background(), testOrder("ORD-1000")))

	orders, err := store.List()
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
