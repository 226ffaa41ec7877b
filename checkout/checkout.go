// Package checkout drives a single customer's checkout flow: a small state
// machine from browsing through the contact form into submission, with a
// single-flight guard around the network call.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ipetrenko/cardshop/cart"
	"github.com/ipetrenko/cardshop/order"
)

type State string

const (
	StateBrowsing    State = "browsing"
	StateContactForm State = "contact-form"
	StateSubmitting  State = "submitting"
)

var (
	ErrEmptyCart          = errors.New("cannot proceed to checkout with an empty cart")
	ErrContactRequired    = errors.New("name and phone are required")
	ErrSubmissionInFlight = errors.New("an order submission is already in progress")
	ErrInvalidTransition  = errors.New("action is not allowed in the current checkout state")
)

// Gateway is the network boundary that delivers a composed submission.
type Gateway interface {
	Submit(c context.Context, submission order.Submission) error
}

// Controller owns the checkout state of one customer session. The lock is
// released while a submission is on the wire, so cart reads and a rejected
// second Confirm stay possible during Submitting.
type Controller struct {
	mu         sync.Mutex
	state      State
	cart       *cart.Cart
	contact    order.Contact
	gateway    Gateway
	submitting bool
}

func New(crt *cart.Cart, gateway Gateway) *Controller {
	return &Controller{state: StateBrowsing, cart: crt, gateway: gateway}
}

func (t *Controller) Cart() *cart.Cart {
	return t.cart
}

func (t *Controller) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Controller) Contact() order.Contact {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.contact
}

// SetContact stores the entered fields as-is; trimming and validation happen
// at confirmation time.
func (t *Controller) SetContact(contact order.Contact) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.contact = contact
}

// Proceed enters the contact form. Guarded: the cart must not be empty.
func (t *Controller) Proceed() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateBrowsing {
		return ErrInvalidTransition
	}
	if t.cart.ItemCount() == 0 {
		return ErrEmptyCart
	}
	t.state = StateContactForm
	return nil
}

// Back returns to browsing. Entered contact fields are kept so a later
// Proceed finds them again; only Reset discards them.
func (t *Controller) Back() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateContactForm {
		return ErrInvalidTransition
	}
	t.state = StateBrowsing
	return nil
}

// Reset discards the entered contact fields. Valid only while browsing.
func (t *Controller) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateBrowsing {
		return ErrInvalidTransition
	}
	t.contact = order.Contact{}
	return nil
}

// Confirm validates the contact fields, composes the immutable submission and
// delivers it through the gateway. On success the cart is cleared and the
// controller resets to browsing; on failure it returns to the contact form
// with the fields intact so the customer can retry. A second Confirm while
// one is in flight is rejected without touching the gateway.
func (t *Controller) Confirm(c context.Context) error {
	t.mu.Lock()
	if t.submitting {
		t.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if t.state != StateContactForm {
		t.mu.Unlock()
		return ErrInvalidTransition
	}

	contact := t.contact.Trimmed()
	if contact.Name == "" || contact.Phone == "" {
		t.mu.Unlock()
		return ErrContactRequired
	}

	submission, err := order.Compose(t.cart, contact)
	if err != nil {
		t.mu.Unlock()
		return fmt.Errorf("failed composing order with error=%w", err)
	}

	t.state = StateSubmitting
	t.submitting = true
	t.mu.Unlock()

	err = t.gateway.Submit(c, submission)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.submitting = false
	if err != nil {
		t.state = StateContactForm
		return fmt.Errorf("failed submitting order with error=%w", err)
	}

	t.cart.Clear()
	t.contact = order.Contact{}
	t.state = StateBrowsing
	return nil
}
