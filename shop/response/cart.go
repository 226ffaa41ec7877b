package response

type Cart struct {
	Items         []CartItem `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	TotalDiscount int64      `json:"totalDiscount"`
	TotalPrice    int64      `json:"totalPrice"`
	ItemCount     int        `json:"itemCount"`
}

type CartItem struct {
	ProductID     string `json:"productId"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl"`
	Category      string `json:"category"`
	Rarity        string `json:"rarity"`
	UnitPrice     int64  `json:"unitPrice"`
	OriginalPrice *int64 `json:"originalPrice,omitempty"`
	Quantity      int    `json:"quantity"`
	Discount      int64  `json:"discount"`
}
