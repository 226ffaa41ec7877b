package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const findProducts = `
select id, title, image_url, category, rarity, unit_price, original_price, created_at, updated_at
from products
where ($1 = '' or category = $1)
  and ($2 = '' or rarity = $2)
  and ($3 = '' or title ilike '%' || $3 || '%')
order by created_at desc
`

type FindProductsParams struct {
	Category string
	Rarity   string
	Search   string
}

func (q *Queries) FindProducts(c context.Context, arg FindProductsParams) ([]Product, error) {
	rows, err := q.db.Query(c, findProducts, arg.Category, arg.Rarity, arg.Search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.ImageUrl,
			&i.Category,
			&i.Rarity,
			&i.UnitPrice,
			&i.OriginalPrice,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const findProductById = `
select id, title, image_url, category, rarity, unit_price, original_price, created_at, updated_at
from products
where id = $1
`

func (q *Queries) FindProductById(c context.Context, id uuid.UUID) (Product, error) {
	row := q.db.QueryRow(c, findProductById, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.ImageUrl,
		&i.Category,
		&i.Rarity,
		&i.UnitPrice,
		&i.OriginalPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertProduct = `
insert into products (title, image_url, category, rarity, unit_price, original_price)
values ($1, $2, $3, $4, $5, $6)
returning id, title, image_url, category, rarity, unit_price, original_price, created_at, updated_at
`

type InsertProductParams struct {
	Title         string
	ImageUrl      string
	Category      string
	Rarity        string
	UnitPrice     pgtype.Numeric
	OriginalPrice pgtype.Numeric
}

func (q *Queries) InsertProduct(c context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(
		c,
		insertProduct,
		arg.Title,
		arg.ImageUrl,
		arg.Category,
		arg.Rarity,
		arg.UnitPrice,
		arg.OriginalPrice,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.ImageUrl,
		&i.Category,
		&i.Rarity,
		&i.UnitPrice,
		&i.OriginalPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateProduct = `
update products
set title          = $1,
    image_url      = $2,
    category       = $3,
    rarity         = $4,
    unit_price     = $5,
    original_price = $6,
    updated_at     = now()
where id = $7
returning id, title, image_url, category, rarity, unit_price, original_price, created_at, updated_at
`

type UpdateProductParams struct {
	Title         string
	ImageUrl      string
	Category      string
	Rarity        string
	UnitPrice     pgtype.Numeric
	OriginalPrice pgtype.Numeric
	ID            uuid.UUID
}

func (q *Queries) UpdateProduct(c context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(
		c,
		updateProduct,
		arg.Title,
		arg.ImageUrl,
		arg.Category,
		arg.Rarity,
		arg.UnitPrice,
		arg.OriginalPrice,
		arg.ID,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.ImageUrl,
		&i.Category,
		&i.Rarity,
		&i.UnitPrice,
		&i.OriginalPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteProduct = `
delete from products
where id = $1
returning id, title, image_url, category, rarity, unit_price, original_price, created_at, updated_at
`

func (q *Queries) DeleteProduct(c context.Context, id uuid.UUID) (Product, error) {
	row := q.db.QueryRow(c, deleteProduct, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.ImageUrl,
		&i.Category,
		&i.Rarity,
		&i.UnitPrice,
		&i.OriginalPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findReviewsByProductId = `
select id, product_id, author, rating, body, created_at
from reviews
where product_id = $1
order by created_at desc
`

func (q *Queries) FindReviewsByProductId(c context.Context, productId uuid.UUID) ([]Review, error) {
	rows, err := q.db.Query(c, findReviewsByProductId, productId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Review{}
	for rows.Next() {
		var i Review
		if err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.Author,
			&i.Rating,
			&i.Body,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertReview = `
insert into reviews (product_id, author, rating, body)
values ($1, $2, $3, $4)
returning id, product_id, author, rating, body, created_at
`

type InsertReviewParams struct {
	ProductID uuid.UUID
	Author    string
	Rating    int32
	Body      string
}

func (q *Queries) InsertReview(c context.Context, arg InsertReviewParams) (Review, error) {
	row := q.db.QueryRow(c, insertReview, arg.ProductID, arg.Author, arg.Rating, arg.Body)
	var i Review
	err := row.Scan(&i.ID, &i.ProductID, &i.Author, &i.Rating, &i.Body, &i.CreatedAt)
	return i, err
}

const deleteReview = `
delete from reviews
where id = $1
returning id, product_id, author, rating, body, created_at
`

func (q *Queries) DeleteReview(c context.Context, id uuid.UUID) (Review, error) {
	row := q.db.QueryRow(c, deleteReview, id)
	var i Review
	err := row.Scan(&i.ID, &i.ProductID, &i.Author, &i.Rating, &i.Body, &i.CreatedAt)
	return i, err
}

const findAdminByUsername = `
select id, username, password, created_at
from admins
where username = $1
`

func (q *Queries) FindAdminByUsername(c context.Context, username string) (Admin, error) {
	row := q.db.QueryRow(c, findAdminByUsername, username)
	var i Admin
	err := row.Scan(&i.ID, &i.Username, &i.Password, &i.CreatedAt)
	return i, err
}
