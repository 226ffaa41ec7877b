package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func spiderMan() Product {
	return Product{
		ID:            "a",
		Title:         "Spider-Man",
		Category:      "marvel",
		Rarity:        "rare",
		UnitPrice:     2499,
		OriginalPrice: int64Ptr(3299),
	}
}

func cyberpunkGTR() Product {
	return Product{
		ID:        "b",
		Title:     "Cyberpunk GT-R",
		Category:  "cars",
		Rarity:    "common",
		UnitPrice: 1899,
	}
}

func TestAddItemMergesQuantity(t *testing.T) {
	c := New()

	c.AddItem(spiderMan(), 1)
	c.AddItem(spiderMan(), 2)

	items := c.Items()
	assert.Len(t, items, 1, "re-adding the same product must not duplicate the line item")
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, c.ItemCount())
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	c := New()

	p := spiderMan()
	c.AddItem(p, 1)
	p.UnitPrice = 1

	assert.Equal(t, int64(2499), c.Items()[0].UnitPrice)
}

func TestAddItemNonPositiveQuantityIsNoop(t *testing.T) {
	c := New()

	c.AddItem(spiderMan(), 0)
	c.AddItem(spiderMan(), -3)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.ItemCount())
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name          string
		quantity      int
		expectedLen   int
		expectedCount int
	}{
		{name: "sets quantity exactly", quantity: 5, expectedLen: 1, expectedCount: 5},
		{name: "zero removes the item", quantity: 0, expectedLen: 0, expectedCount: 0},
		{name: "negative removes the item", quantity: -1, expectedLen: 0, expectedCount: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.AddItem(spiderMan(), 2)

			c.UpdateQuantity("a", tt.quantity)

			assert.Equal(t, tt.expectedLen, c.Len())
			assert.Equal(t, tt.expectedCount, c.ItemCount())
		})
	}
}

func TestUpdateQuantityUnknownIdIsNoop(t *testing.T) {
	c := New()
	c.AddItem(spiderMan(), 1)

	c.UpdateQuantity("unknown", 7)

	assert.Equal(t, 1, c.ItemCount())
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	c := New()
	c.AddItem(spiderMan(), 1)
	c.AddItem(cyberpunkGTR(), 2)

	c.RemoveItem("a")
	c.RemoveItem("a")

	items := c.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestTotals(t *testing.T) {
	c := New()
	c.AddItem(spiderMan(), 1)
	c.AddItem(cyberpunkGTR(), 2)

	assert.Equal(t, int64(2499+1899*2), c.Subtotal())
	assert.Equal(t, c.Subtotal(), c.TotalPrice(), "discount must not be subtracted twice")
	assert.Equal(t, int64(800), c.TotalDiscount())
	assert.Equal(t, 3, c.ItemCount())
}

func TestDiscountIgnoresOriginalPriceBelowUnitPrice(t *testing.T) {
	c := New()
	p := spiderMan()
	p.OriginalPrice = int64Ptr(2000)
	c.AddItem(p, 3)

	assert.Equal(t, int64(0), c.TotalDiscount())
}

func TestInsertionOrderIsPreserved(t *testing.T) {
	c := New()
	c.AddItem(cyberpunkGTR(), 1)
	c.AddItem(spiderMan(), 1)
	c.AddItem(cyberpunkGTR(), 1)

	items := c.Items()
	assert.Equal(t, []string{"b", "a"}, []string{items[0].ID, items[1].ID})
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(spiderMan(), 1)

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.TotalPrice())
}

func TestListenersRunOnEveryMutation(t *testing.T) {
	c := New()
	calls := 0
	unsubscribe := c.Subscribe(func() { calls++ })

	c.AddItem(spiderMan(), 1)    // 1
	c.AddItem(spiderMan(), 2)    // 2, merge still notifies
	c.UpdateQuantity("a", 5)     // 3
	c.UpdateQuantity("a", 0)     // 4, removal path
	c.RemoveItem("a")            // absent, no notify
	c.Clear()                    // empty, no notify
	c.AddItem(cyberpunkGTR(), 1) // 5

	assert.Equal(t, 5, calls)

	unsubscribe()
	c.Clear()
	assert.Equal(t, 5, calls, "unsubscribed listener must not run")
}

func TestListenerObservesFreshTotals(t *testing.T) {
	c := New()
	var observed int64 = -1
	c.Subscribe(func() { observed = c.TotalPrice() })

	c.AddItem(cyberpunkGTR(), 2)

	assert.Equal(t, int64(3798), observed, "totals must be consistent inside the notification")
}
