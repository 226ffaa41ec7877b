package request

import "github.com/shopspring/decimal"

type Product struct {
	Title         string           `validate:"required"      json:"title"`
	ImageUrl      string           `                         json:"imageUrl"`
	Category      string           `validate:"required"      json:"category"`
	Rarity        string           `validate:"required"      json:"rarity"`
	UnitPrice     decimal.Decimal  `validate:"required"      json:"unitPrice"`
	OriginalPrice *decimal.Decimal `                         json:"originalPrice"`
}

type Review struct {
	Author string `validate:"required"            json:"author"`
	Rating int32  `validate:"required,gte=1,lte=5" json:"rating"`
	Body   string `                                json:"body"`
}

type Login struct {
	Username string `validate:"required" json:"username"`
	Password string `validate:"required" json:"password"`
}
