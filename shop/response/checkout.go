package response

import (
	"github.com/ipetrenko/cardshop/checkout"
	"github.com/ipetrenko/cardshop/order"
)

type Checkout struct {
	State   string  `json:"state"`
	Contact Contact `json:"contact"`
	Cart    Cart    `json:"cart"`
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func NewCheckout(ctrl *checkout.Controller) Checkout {
	contact := ctrl.Contact()
	return Checkout{
		State:   string(ctrl.State()),
		Contact: NewContact(contact),
		Cart:    NewCart(ctrl.Cart()),
	}
}

func NewContact(contact order.Contact) Contact {
	return Contact{Name: contact.Name, Phone: contact.Phone}
}
