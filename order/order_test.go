package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipetrenko/cardshop/cart"
)

func int64Ptr(v int64) *int64 { return &v }

func sampleCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	c.AddItem(cart.Product{
		ID:            "a",
		Title:         "Spider-Man",
		UnitPrice:     2499,
		OriginalPrice: int64Ptr(3299),
	}, 1)
	c.AddItem(cart.Product{
		ID:        "b",
		Title:     "Cyberpunk GT-R",
		UnitPrice: 1899,
	}, 2)
	return c
}

func TestComposeSnapshot(t *testing.T) {
	c := sampleCart(t)

	submission, err := Compose(c, Contact{Name: "  Ivan ", Phone: " +375291234567 "})
	require.NoError(t, err)

	assert.Equal(t, "Ivan", submission.Name, "contact fields are trimmed before composition")
	assert.Equal(t, "+375291234567", submission.Phone)
	assert.Equal(t, int64(6297), submission.Total)
	assert.Equal(t, int64(800), submission.Discount)
	require.Len(t, submission.Items, 2)
	assert.Equal(t, Item{Title: "Spider-Man", Quantity: 1, UnitPrice: 2499}, submission.Items[0])
	assert.Equal(t, Item{Title: "Cyberpunk GT-R", Quantity: 2, UnitPrice: 1899}, submission.Items[1])
}

func TestComposeIsASnapshot(t *testing.T) {
	c := sampleCart(t)

	submission, err := Compose(c, Contact{Name: "Ivan", Phone: "+375291234567"})
	require.NoError(t, err)

	c.UpdateQuantity("b", 9)
	c.RemoveItem("a")

	assert.Equal(t, int64(6297), submission.Total, "later cart mutations must not reach the snapshot")
	assert.Len(t, submission.Items, 2)
}

func TestComposeEmptyCart(t *testing.T) {
	_, err := Compose(cart.New(), Contact{Name: "Ivan", Phone: "+375291234567"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}
