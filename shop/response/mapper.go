package response

import "github.com/ipetrenko/cardshop/cart"

func NewCart(crt *cart.Cart) Cart {
	lines := crt.Items()
	items := make([]CartItem, len(lines))
	for i, line := range lines {
		items[i] = CartItem{
			ProductID:     line.ID,
			Title:         line.Title,
			ImageURL:      line.ImageURL,
			Category:      line.Category,
			Rarity:        line.Rarity,
			UnitPrice:     line.UnitPrice,
			OriginalPrice: line.OriginalPrice,
			Quantity:      line.Quantity,
			Discount:      line.Discount(),
		}
	}
	return Cart{
		Items:         items,
		Subtotal:      crt.Subtotal(),
		TotalDiscount: crt.TotalDiscount(),
		TotalPrice:    crt.TotalPrice(),
		ItemCount:     crt.ItemCount(),
	}
}
