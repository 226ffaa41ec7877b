// Package order turns a cart snapshot into the outbound order submission and
// renders it as the text message delivered to the notification channel.
package order

import (
	"errors"
	"strings"

	"github.com/ipetrenko/cardshop/cart"
)

// ErrEmptyCart signals a programming error: the checkout controller must not
// let an empty cart reach composition.
var ErrEmptyCart = errors.New("cannot compose an order from an empty cart")

type Contact struct {
	Name  string `json:"name"  validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

func (c Contact) Trimmed() Contact {
	return Contact{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
	}
}

type Item struct {
	Title     string `json:"title"    validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	UnitPrice int64  `json:"price"    validate:"gte=0"`
}

// Submission is the immutable snapshot taken at submit time. It is built once
// per attempt so that cart mutations mid-flight cannot change what is sent.
type Submission struct {
	Name     string `json:"name"     validate:"required"`
	Phone    string `json:"phone"    validate:"required"`
	Items    []Item `json:"items"    validate:"required,gt=0,dive"`
	Total    int64  `json:"total"    validate:"gte=0"`
	Discount int64  `json:"discount" validate:"gte=0"`
}

// Compose snapshots the cart and contact into a Submission. Items keep the
// cart's insertion order.
func Compose(crt *cart.Cart, contact Contact) (Submission, error) {
	lineItems := crt.Items()
	if len(lineItems) == 0 {
		return Submission{}, ErrEmptyCart
	}

	contact = contact.Trimmed()
	items := make([]Item, 0, len(lineItems))
	for _, li := range lineItems {
		items = append(items, Item{
			Title:     li.Title,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
		})
	}

	return Submission{
		Name:     contact.Name,
		Phone:    contact.Phone,
		Items:    items,
		Total:    crt.TotalPrice(),
		Discount: crt.TotalDiscount(),
	}, nil
}
