// Package cart holds the in-memory shopping cart: an insertion-ordered
// collection of line items with totals derived on every read, never cached.
// A cart belongs to exactly one customer session.
package cart

import "sync"

// Product is the catalog snapshot taken at add-to-cart time. Price changes in
// the catalog after adding do not reach items already in the cart.
type Product struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl"`
	Category      string `json:"category"`
	Rarity        string `json:"rarity"`
	UnitPrice     int64  `json:"unitPrice"`
	OriginalPrice *int64 `json:"originalPrice,omitempty"`
}

type LineItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl"`
	Category      string `json:"category"`
	Rarity        string `json:"rarity"`
	UnitPrice     int64  `json:"unitPrice"`
	OriginalPrice *int64 `json:"originalPrice,omitempty"`
	Quantity      int    `json:"quantity"`
}

// Discount is the per-unit markdown of the item, zero when no original price
// is known or the original price does not exceed the current one.
func (li LineItem) Discount() int64 {
	if li.OriginalPrice == nil {
		return 0
	}
	if d := *li.OriginalPrice - li.UnitPrice; d > 0 {
		return d
	}
	return 0
}

type Listener func()

type Cart struct {
	mu        sync.Mutex
	items     []LineItem
	listeners map[int]Listener
	nextID    int
}

func New() *Cart {
	return &Cart{listeners: map[int]Listener{}}
}

// Subscribe registers fn to run synchronously after every mutation, once the
// mutated state is readable. The returned function unsubscribes.
func (t *Cart) Subscribe(fn Listener) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.listeners, id)
	}
}

// notify runs outside the cart lock so listeners may read derived totals.
func (t *Cart) notify() {
	t.mu.Lock()
	listeners := make([]Listener, 0, len(t.listeners))
	for _, fn := range t.listeners {
		listeners = append(listeners, fn)
	}
	t.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// AddItem merges quantity into an existing line item with the same product id
// or appends a new one, snapshotting the product's current prices. Quantity
// below one is a no-op.
func (t *Cart) AddItem(p Product, quantity int) {
	if quantity <= 0 {
		return
	}
	t.mu.Lock()
	merged := false
	for i := range t.items {
		if t.items[i].ID == p.ID {
			t.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		t.items = append(t.items, LineItem{
			ID:            p.ID,
			Title:         p.Title,
			ImageURL:      p.ImageURL,
			Category:      p.Category,
			Rarity:        p.Rarity,
			UnitPrice:     p.UnitPrice,
			OriginalPrice: p.OriginalPrice,
			Quantity:      quantity,
		})
	}
	t.mu.Unlock()
	t.notify()
}

// UpdateQuantity sets the item's quantity exactly; a quantity below one
// removes the item. Unknown ids are a no-op.
func (t *Cart) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		t.RemoveItem(id)
		return
	}
	t.mu.Lock()
	updated := false
	for i := range t.items {
		if t.items[i].ID == id {
			t.items[i].Quantity = quantity
			updated = true
			break
		}
	}
	t.mu.Unlock()
	if updated {
		t.notify()
	}
}

// RemoveItem deletes the line item if present; idempotent.
func (t *Cart) RemoveItem(id string) {
	t.mu.Lock()
	removed := false
	for i := range t.items {
		if t.items[i].ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			removed = true
			break
		}
	}
	t.mu.Unlock()
	if removed {
		t.notify()
	}
}

func (t *Cart) Clear() {
	t.mu.Lock()
	if len(t.items) == 0 {
		t.mu.Unlock()
		return
	}
	t.items = nil
	t.mu.Unlock()
	t.notify()
}

// Items returns a copy of the line items in insertion order.
func (t *Cart) Items() []LineItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	items := make([]LineItem, len(t.items))
	copy(items, t.items)
	return items
}

func (t *Cart) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

func (t *Cart) Subtotal() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var sum int64
	for _, li := range t.items {
		sum += li.UnitPrice * int64(li.Quantity)
	}
	return sum
}

func (t *Cart) TotalDiscount() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var sum int64
	for _, li := range t.items {
		sum += li.Discount() * int64(li.Quantity)
	}
	return sum
}

// TotalPrice equals Subtotal: unit prices already carry the discount, so the
// discount is never subtracted a second time.
func (t *Cart) TotalPrice() int64 {
	return t.Subtotal()
}

func (t *Cart) ItemCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, li := range t.items {
		count += li.Quantity
	}
	return count
}
