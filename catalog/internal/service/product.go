package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ipetrenko/cardshop/catalog/internal/cache"
	"github.com/ipetrenko/cardshop/catalog/internal/otel"
	"github.com/ipetrenko/cardshop/catalog/internal/repository"
	"github.com/ipetrenko/cardshop/catalog/request"
	"github.com/ipetrenko/cardshop/catalog/response"
	inErrors "github.com/ipetrenko/cardshop/internal/errors"
	"github.com/ipetrenko/cardshop/internal/log"
	inOtel "github.com/ipetrenko/cardshop/internal/otel"
)

type ProductService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewProductService(queries *repository.Queries, cache *redis.Client) ProductService {
	return ProductService{queries: queries, cache: cache}
}

func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		NaN:              false,
		Valid:            true,
	}
}

func optionalNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return numeric(*d)
}

func (svc ProductService) FindProducts(
	c context.Context,
	param repository.FindProductsParams,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding products in database").Logger()
	logger.Trace().Msg("finding products in database")
	products, err := svc.queries.FindProducts(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding products in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found products in database")

	responses := make([]response.Product, len(products))
	for i, product := range products {
		responses[i] = product.Response()
	}
	return responses, nil
}

func (svc ProductService) FindProductById(
	c context.Context,
	id uuid.UUID,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	cacheKey := cache.KeyProducts + id.String()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Str(log.KeyProductID, id.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in cache").Logger()
	logger.Trace().Msg("finding product in cache")
	jsonCache, err := svc.cache.Get(c, cacheKey).Result()
	if err == nil && jsonCache != "" {
		product := response.Product{}
		if err = json.Unmarshal([]byte(jsonCache), &product); err == nil {
			logger.Debug().Msg("found product in cache")
			return product, nil
		}
		err = fmt.Errorf("failed unmarshalling cached product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}

	logger = logger.With().Str(log.KeyProcess, "finding product in database").Logger()
	logger.Trace().Msg("finding product in database")
	product, err := svc.queries.FindProductById(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding productId=%s with error=%w", id.String(), inErrors.ErrProductNotFound)
		} else {
			err = fmt.Errorf("failed finding product in database with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("found product in database")

	svc.setCache(c, cacheKey, product.Response())
	return product.Response(), nil
}

func (svc ProductService) InsertProduct(
	c context.Context,
	param request.Product,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService InsertProduct").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "inserting product to database").Logger()
	logger.Trace().Msg("inserting product to database")
	product, err := svc.queries.InsertProduct(c, repository.InsertProductParams{
		Title:         param.Title,
		ImageUrl:      param.ImageUrl,
		Category:      param.Category,
		Rarity:        param.Rarity,
		UnitPrice:     numeric(param.UnitPrice),
		OriginalPrice: optionalNumeric(param.OriginalPrice),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger = logger.With().Str(log.KeyProductID, product.ID.String()).Logger()
	logger.Info().Msg("inserted product to database")

	svc.setCache(c, cache.KeyProducts+product.ID.String(), product.Response())
	return product.Response(), nil
}

func (svc ProductService) UpdateProduct(
	c context.Context,
	id uuid.UUID,
	param request.Product,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService UpdateProduct")
	defer span.End()

	cacheKey := cache.KeyProducts + id.String()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService UpdateProduct").
		Str(log.KeyProductID, id.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "updating product in database").Logger()
	logger.Trace().Msg("updating product in database")
	product, err := svc.queries.UpdateProduct(c, repository.UpdateProductParams{
		Title:         param.Title,
		ImageUrl:      param.ImageUrl,
		Category:      param.Category,
		Rarity:        param.Rarity,
		UnitPrice:     numeric(param.UnitPrice),
		OriginalPrice: optionalNumeric(param.OriginalPrice),
		ID:            id,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed updating productId=%s with error=%w", id.String(), inErrors.ErrProductNotFound)
		} else {
			err = fmt.Errorf("failed updating product with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("updated product in database")

	svc.setCache(c, cacheKey, product.Response())
	return product.Response(), nil
}

func (svc ProductService) RemoveProduct(
	c context.Context,
	id uuid.UUID,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService RemoveProduct")
	defer span.End()

	cacheKey := cache.KeyProducts + id.String()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService RemoveProduct").
		Str(log.KeyProductID, id.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "removing product in cache").Logger()
	logger.Trace().Msg("removing product in cache")
	if err := svc.cache.Del(c, cacheKey).Err(); err != nil {
		err = fmt.Errorf("failed removing product in cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("removed product in cache")

	logger = logger.With().Str(log.KeyProcess, "removing product in database").Logger()
	logger.Trace().Msg("removing product in database")
	product, err := svc.queries.DeleteProduct(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed removing productId=%s with error=%w", id.String(), inErrors.ErrProductNotFound)
		} else {
			err = fmt.Errorf("failed removing product in database with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("removed product in database")

	return product.Response(), nil
}

func (svc ProductService) FindReviews(
	c context.Context,
	productId uuid.UUID,
) ([]response.Review, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindReviews")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindReviews").
		Str(log.KeyProductID, productId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding reviews in database").Logger()
	logger.Trace().Msg("finding reviews in database")
	reviews, err := svc.queries.FindReviewsByProductId(c, productId)
	if err != nil {
		err = fmt.Errorf("failed finding reviews in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found reviews in database")

	responses := make([]response.Review, len(reviews))
	for i, review := range reviews {
		responses[i] = review.Response()
	}
	return responses, nil
}

func (svc ProductService) InsertReview(
	c context.Context,
	productId uuid.UUID,
	param request.Review,
) (response.Review, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertReview")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService InsertReview").
		Str(log.KeyProductID, productId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "inserting review to database").Logger()
	logger.Trace().Msg("inserting review to database")
	review, err := svc.queries.InsertReview(c, repository.InsertReviewParams{
		ProductID: productId,
		Author:    param.Author,
		Rating:    param.Rating,
		Body:      param.Body,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting review with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Review{}, err
	}
	logger.Info().Msg("inserted review to database")

	return review.Response(), nil
}

func (svc ProductService) RemoveReview(
	c context.Context,
	id uuid.UUID,
) (response.Review, error) {
	c, span := otel.Tracer.Start(c, "ProductService RemoveReview")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService RemoveReview").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "removing review in database").Logger()
	logger.Trace().Msg("removing review in database")
	review, err := svc.queries.DeleteReview(c, id)
	if err != nil {
		err = fmt.Errorf("failed removing review in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Review{}, err
	}
	logger.Info().Msg("removed review in database")

	return review.Response(), nil
}

// setCache failures are logged but never fail the request; the database
// already holds the truth.
func (svc ProductService) setCache(c context.Context, key string, product response.Product) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService setCache").
		Str(log.KeyCacheKey, key).
		Logger()

	encoded, err := json.Marshal(product)
	if err != nil {
		err = fmt.Errorf("failed marshalling product for cache with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	if err := svc.cache.Set(c, key, encoded, 0).Err(); err != nil {
		err = fmt.Errorf("failed inserting product to cache with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
	}
}
