package response

import (
	"time"

	"github.com/google/uuid"
)

// Product prices are whole currency units; the original price is only present
// for discounted cards.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	ImageURL      string    `json:"imageUrl"`
	Category      string    `json:"category"`
	Rarity        string    `json:"rarity"`
	UnitPrice     int64     `json:"unitPrice"`
	OriginalPrice *int64    `json:"originalPrice,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Review struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Author    string    `json:"author"`
	Rating    int32     `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type Login struct {
	Token string `json:"token"`
}

type Upload struct {
	URL string `json:"url"`
}
