package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ipetrenko/cardshop/catalog/internal/cache"
	"github.com/ipetrenko/cardshop/catalog/internal/repository"
	"github.com/ipetrenko/cardshop/catalog/request"
	inErrors "github.com/ipetrenko/cardshop/internal/errors"
)

var (
	seededCharizardId = uuid.MustParse("3f1f9b1e-0b1a-4e6f-9a14-111111111111")
	seededLotusId     = uuid.MustParse("3f1f9b1e-0b1a-4e6f-9a14-222222222222")
)

func TestFindProductByIdFillsCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := context.Background()
	f := setup(t, c, filepath.Join("seed", "products.seed.sql"))

	product, err := f.products.FindProductById(c, seededCharizardId)
	require.NoError(t, err)
	assert.Equal(t, "Charizard Holo 1st Edition", product.Title)
	assert.Equal(t, int64(2499), product.UnitPrice)
	require.NotNil(t, product.OriginalPrice)
	assert.Equal(t, int64(3299), *product.OriginalPrice)

	cached, err := f.cache.Get(c, cache.KeyProducts+seededCharizardId.String()).Result()
	require.NoError(t, err)
	assert.NotEmpty(t, cached)

	again, err := f.products.FindProductById(c, seededCharizardId)
	require.NoError(t, err)
	assert.Equal(t, product, again)
}

func TestFindProductByIdNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := context.Background()
	f := setup(t, c)

	_, err := f.products.FindProductById(c, uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestFindProductsFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := context.Background()
	f := setup(t, c, filepath.Join("seed", "products.seed.sql"))

	tests := []struct {
		name     string
		param    repository.FindProductsParams
		expected []uuid.UUID
	}{
		{
			name:     "no filter returns everything",
			param:    repository.FindProductsParams{},
			expected: []uuid.UUID{seededCharizardId, seededLotusId},
		},
		{
			name:     "category filter",
			param:    repository.FindProductsParams{Category: "mtg"},
			expected: []uuid.UUID{seededLotusId},
		},
		{
			name:     "rarity filter",
			param:    repository.FindProductsParams{Rarity: "holo-rare"},
			expected: []uuid.UUID{seededCharizardId},
		},
		{
			name:     "name search",
			param:    repository.FindProductsParams{Search: "charizard"},
			expected: []uuid.UUID{seededCharizardId},
		},
		{
			name:     "no match",
			param:    repository.FindProductsParams{Category: "yugioh"},
			expected: []uuid.UUID{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			products, err := f.products.FindProducts(c, test.param)
			require.NoError(t, err)
			ids := make([]uuid.UUID, len(products))
			for i, product := range products {
				ids[i] = product.ID
			}
			assert.ElementsMatch(t, test.expected, ids)
		})
	}
}

func TestProductLifecycleInvalidatesCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := context.Background()
	f := setup(t, c)

	original := decimal.NewFromInt(999)
	inserted, err := f.products.InsertProduct(c, request.Product{
		Title:         "Pikachu Illustrator",
		Category:      "pokemon",
		Rarity:        "promo",
		UnitPrice:     decimal.NewFromInt(750),
		OriginalPrice: &original,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(750), inserted.UnitPrice)
	require.NotNil(t, inserted.OriginalPrice)
	assert.Equal(t, int64(999), *inserted.OriginalPrice)

	updated, err := f.products.UpdateProduct(c, inserted.ID, request.Product{
		Title:     "Pikachu Illustrator",
		Category:  "pokemon",
		Rarity:    "promo",
		UnitPrice: decimal.NewFromInt(700),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(700), updated.UnitPrice)
	assert.Nil(t, updated.OriginalPrice)

	// Cache was refreshed by the update, so the read must see the new price.
	found, err := f.products.FindProductById(c, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(700), found.UnitPrice)

	_, err = f.products.RemoveProduct(c, inserted.ID)
	require.NoError(t, err)

	_, err = f.products.FindProductById(c, inserted.ID)
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestReviewLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := context.Background()
	f := setup(t, c, filepath.Join("seed", "products.seed.sql"))

	inserted, err := f.products.InsertReview(c, seededCharizardId, request.Review{
		Author: "collector42",
		Rating: 5,
		Body:   "centering is perfect",
	})
	require.NoError(t, err)
	assert.Equal(t, seededCharizardId, inserted.ProductID)

	reviews, err := f.products.FindReviews(c, seededCharizardId)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "collector42", reviews[0].Author)

	_, err = f.products.RemoveReview(c, inserted.ID)
	require.NoError(t, err)

	reviews, err = f.products.FindReviews(c, seededCharizardId)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestAdminLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	c := context.Background()
	f := setup(t, c)

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)
	_, err = f.pool.Exec(
		c,
		"insert into admins (username, password) values ($1, $2)",
		"root",
		string(hashed),
	)
	require.NoError(t, err)

	admins := NewAdminService(f.queries, "test-secret")

	login, err := admins.Login(c, request.Login{Username: "root", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	_, err = admins.Login(c, request.Login{Username: "root", Password: "wrong"})
	assert.ErrorIs(t, err, inErrors.ErrWrongCredentials)

	// Unknown admin is indistinguishable from a bad password.
	_, err = admins.Login(c, request.Login{Username: "ghost", Password: "hunter2"})
	assert.ErrorIs(t, err, inErrors.ErrWrongCredentials)
}
