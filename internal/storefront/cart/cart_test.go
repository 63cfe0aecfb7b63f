package cart

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	store, err := NewStore(NewMemoryStore())
	require.NoError(t, err)
	return store
}

func testItem(id, name string, price float64) Item {
	return Item{
		ProductID: id,
		Name:      name,
		UnitPrice: decimal.NewFromFloat(price),
	}
}

func TestStore_Add(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestStore_AddSameProductIncrementsQuantity(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))
	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))
	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, store.Count())
}

func TestStore_AddValidation(t *testing.T) {
	store := newTestStore(t)

	err := store.Add(Item{Name: "no id", UnitPrice: decimal.NewFromInt(1)})
	assert.Error(t, err)

	err = store.Add(Item{ProductID: "p1", UnitPrice: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	assert.True(t, store.IsEmpty())
}

func TestStore_PreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))
	require.NoError(t, store.Add(testItem("p2", "Mouse", 19.99)))
	require.NoError(t, store.Add(testItem("p3", "Monitor", 199.99)))
	require.NoError(t, store.Add(testItem("p2", "Mouse", 19.99)))

	items := store.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "p2", items[1].ProductID)
	assert.Equal(t, "p3", items[2].ProductID)
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))
	require.NoError(t, store.Add(testItem("p2", "Mouse", 19.99)))

	require.NoError(t, store.Remove("p1"))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	// Removing an absent product is a no-op
	require.NoError(t, store.Remove("missing"))
	assert.Len(t, store.Items(), 1)
}

func TestStore_SetQuantity(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))

	require.NoError(t, store.SetQuantity("p1", 5))
	assert.Equal(t, 5, store.Items()[0].Quantity)
	assert.Equal(t, 5, store.Count())

	// Zero removes the line
	require.NoError(t, store.SetQuantity("p1", 0))
	assert.True(t, store.IsEmpty())

	// Unknown product errors
	err := store.SetQuantity("missing", 2)
	assert.Error(t, err)
}

func TestStore_Total(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))
	require.NoError(t, store.Add(testItem("p2", "Mouse", 19.99)))
	require.NoError(t, store.SetQuantity("p2", 3))

	// 49.99 + 3*19.99 = 109.96
	assert.True(t, store.Total().Equal(decimal.NewFromFloat(109.96)),
		"got %s", store.Total())
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))
	require.NoError(t, store.Clear())

	assert.True(t, store.IsEmpty())
	assert.Equal(t, 0, store.Count())
	assert.True(t, store.Total().IsZero())
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	persist := NewMemoryStore()
	store, err := NewStore(persist)
	require.NoError(t, err)

	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))
	saved, err := persist.Load()
	require.NoError(t, err)
	require.Len(t, saved, 1)

	require.NoError(t, store.SetQuantity("p1", 4))
	saved, err = persist.Load()
	require.NoError(t, err)
	assert.Equal(t, 4, saved[0].Quantity)

	require.NoError(t, store.Clear())
	saved, err = persist.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestStore_RestoreSkipsInvalidLines(t *testing.T) {
	persist := NewMemoryStore()
	require.NoError(t, persist.Save([]Item{
		{ProductID: "p1", Name: "Keyboard", UnitPrice: decimal.NewFromInt(50), Quantity: 2},
		{ProductID: "", Name: "orphan", UnitPrice: decimal.NewFromInt(1), Quantity: 1},
		{ProductID: "p2", Name: "zeroed", UnitPrice: decimal.NewFromInt(1), Quantity: 0},
	}))

	store, err := NewStore(persist)
	require.NoError(t, err)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "cart.json")
	persist := NewFileStore(path)

	store, err := NewStore(persist)
	require.NoError(t, err)
	require.NoError(t, store.Add(testItem("p1", "Keyboard", 49.99)))
	require.NoError(t, store.Add(testItem("p2", "Mouse", 19.99)))
	require.NoError(t, store.SetQuantity("p1", 2))

	// A fresh store over the same file sees the identical cart
	restored, err := NewStore(NewFileStore(path))
	require.NoError(t, err)

	items := restored.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromFloat(49.99)))
	assert.Equal(t, "p2", items[1].ProductID)
	assert.True(t, restored.Total().Equal(store.Total()))
}

func TestFileStore_MissingFileIsEmptyCart(t *testing.T) {
	persist := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	items, err := persist.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItem_LineTotal(t *testing.T) {
	item := Item{UnitPrice: decimal.NewFromFloat(19.99), Quantity: 3}
	assert.True(t, item.LineTotal().Equal(decimal.NewFromFloat(59.97)))
}
