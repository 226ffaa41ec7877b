package repository

import (
	"github.com/shopspring/decimal"

	"github.com/ipetrenko/cardshop/catalog/response"
)

func (p Product) Response() response.Product {
	var originalPrice *int64
	if p.OriginalPrice.Valid {
		v := decimal.NewFromBigInt(p.OriginalPrice.Int, p.OriginalPrice.Exp).IntPart()
		originalPrice = &v
	}
	return response.Product{
		ID:            p.ID,
		Title:         p.Title,
		ImageURL:      p.ImageUrl,
		Category:      p.Category,
		Rarity:        p.Rarity,
		UnitPrice:     decimal.NewFromBigInt(p.UnitPrice.Int, p.UnitPrice.Exp).IntPart(),
		OriginalPrice: originalPrice,
		CreatedAt:     p.CreatedAt.Time,
		UpdatedAt:     p.UpdatedAt.Time,
	}
}

func (r Review) Response() response.Review {
	return response.Review{
		ID:        r.ID,
		ProductID: r.ProductID,
		Author:    r.Author,
		Rating:    r.Rating,
		Body:      r.Body,
		CreatedAt: r.CreatedAt.Time,
	}
}
