package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Product struct {
	ID            uuid.UUID
	Title         string
	ImageUrl      string
	Category      string
	Rarity        string
	UnitPrice     pgtype.Numeric
	OriginalPrice pgtype.Numeric
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type Review struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Author    string
	Rating    int32
	Body      string
	CreatedAt pgtype.Timestamptz
}

type Admin struct {
	ID        uuid.UUID
	Username  string
	Password  string
	CreatedAt pgtype.Timestamptz
}
