package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipetrenko/cardshop/cart"
	"github.com/ipetrenko/cardshop/order"
)

type fakeGateway struct {
	mu          sync.Mutex
	calls       int
	submissions []order.Submission
	err         error
	entered     chan struct{}
	release     chan struct{}
}

func (g *fakeGateway) Submit(c context.Context, submission order.Submission) error {
	g.mu.Lock()
	g.calls++
	g.submissions = append(g.submissions, submission)
	g.mu.Unlock()
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	return g.err
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func int64Ptr(v int64) *int64 { return &v }

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	c.AddItem(cart.Product{
		ID:            "a",
		Title:         "Spider-Man",
		UnitPrice:     2499,
		OriginalPrice: int64Ptr(3299),
	}, 1)
	c.AddItem(cart.Product{ID: "b", Title: "Cyberpunk GT-R", UnitPrice: 1899}, 2)
	return c
}

func TestProceedRequiresNonEmptyCart(t *testing.T) {
	controller := New(cart.New(), &fakeGateway{})

	err := controller.Proceed()

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateBrowsing, controller.State())
}

func TestProceedAndBack(t *testing.T) {
	controller := New(filledCart(t), &fakeGateway{})

	require.NoError(t, controller.Proceed())
	assert.Equal(t, StateContactForm, controller.State())

	controller.SetContact(order.Contact{Name: "Ivan", Phone: "+375291234567"})
	require.NoError(t, controller.Back())
	assert.Equal(t, StateBrowsing, controller.State())
	assert.Equal(t, "Ivan", controller.Contact().Name, "back keeps the entered fields")

	require.NoError(t, controller.Reset())
	assert.Empty(t, controller.Contact().Name, "reset from browsing discards the fields")
}

func TestConfirmRequiresContact(t *testing.T) {
	tests := []struct {
		name    string
		contact order.Contact
	}{
		{name: "empty fields", contact: order.Contact{}},
		{name: "whitespace only name", contact: order.Contact{Name: "   ", Phone: "+375291234567"}},
		{name: "whitespace only phone", contact: order.Contact{Name: "Ivan", Phone: "\t "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &fakeGateway{}
			controller := New(filledCart(t), gateway)
			require.NoError(t, controller.Proceed())
			controller.SetContact(tt.contact)

			err := controller.Confirm(context.Background())

			assert.ErrorIs(t, err, ErrContactRequired)
			assert.Equal(t, 0, gateway.callCount(), "validation errors never reach the network")
			assert.Equal(t, StateContactForm, controller.State())
		})
	}
}

func TestConfirmSuccessClearsCartAndResets(t *testing.T) {
	gateway := &fakeGateway{}
	crt := filledCart(t)
	controller := New(crt, gateway)
	require.NoError(t, controller.Proceed())
	controller.SetContact(order.Contact{Name: "Ivan", Phone: "+375291234567"})

	require.NoError(t, controller.Confirm(context.Background()))

	require.Equal(t, 1, gateway.callCount())
	submission := gateway.submissions[0]
	assert.Equal(t, int64(6297), submission.Total)
	assert.Equal(t, int64(800), submission.Discount)
	assert.Len(t, submission.Items, 2)

	assert.Equal(t, StateBrowsing, controller.State())
	assert.Equal(t, 0, crt.ItemCount(), "success leaves the cart empty")
	assert.Empty(t, controller.Contact().Name)
}

func TestConfirmFailureReturnsToContactForm(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("connection reset")}
	crt := filledCart(t)
	controller := New(crt, gateway)
	require.NoError(t, controller.Proceed())
	controller.SetContact(order.Contact{Name: "Ivan", Phone: "+375291234567"})

	err := controller.Confirm(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateContactForm, controller.State())
	assert.Equal(t, "Ivan", controller.Contact().Name, "fields survive a failed submission")
	assert.Equal(t, 3, crt.ItemCount(), "the cart is not cleared on failure")

	// Manual retry succeeds.
	gateway.err = nil
	require.NoError(t, controller.Confirm(context.Background()))
	assert.Equal(t, 2, gateway.callCount())
	assert.Equal(t, 0, crt.ItemCount())
}

func TestConfirmIsSingleFlight(t *testing.T) {
	gateway := &fakeGateway{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	controller := New(filledCart(t), gateway)
	require.NoError(t, controller.Proceed())
	controller.SetContact(order.Contact{Name: "Ivan", Phone: "+375291234567"})

	firstDone := make(chan error, 1)
	go func() { firstDone <- controller.Confirm(context.Background()) }()

	select {
	case <-gateway.entered:
	case <-time.After(time.Second):
		t.Fatal("gateway was never invoked")
	}
	assert.Equal(t, StateSubmitting, controller.State())

	err := controller.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight, "double click must not submit twice")

	close(gateway.release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, gateway.callCount())
}

func TestConfirmSubmissionIsSnapshot(t *testing.T) {
	gateway := &fakeGateway{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	crt := filledCart(t)
	controller := New(crt, gateway)
	require.NoError(t, controller.Proceed())
	controller.SetContact(order.Contact{Name: "Ivan", Phone: "+375291234567"})

	done := make(chan error, 1)
	go func() { done <- controller.Confirm(context.Background()) }()
	<-gateway.entered

	// The cart changes while the submission is on the wire; the payload that
	// was composed must not change with it.
	crt.AddItem(cart.Product{ID: "c", Title: "Mystery Pack", UnitPrice: 999}, 5)

	close(gateway.release)
	require.NoError(t, <-done)
	assert.Equal(t, int64(6297), gateway.submissions[0].Total)
}
