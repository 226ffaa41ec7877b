package request

type AddCartItem struct {
	ProductId string `validate:"required,uuid"  json:"productId"`
	Quantity  int    `validate:"required,gte=1" json:"quantity"`
}

type UpdateCartItem struct {
	Quantity int `json:"quantity"`
}
