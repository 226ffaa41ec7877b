package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	commonOtel "github.com/ipetrenko/cardshop/catalog/internal/otel"
	"github.com/ipetrenko/cardshop/catalog/internal/repository"
	"github.com/ipetrenko/cardshop/catalog/internal/service"
	"github.com/ipetrenko/cardshop/catalog/request"
	inErrors "github.com/ipetrenko/cardshop/internal/errors"
	inHttp "github.com/ipetrenko/cardshop/internal/http"
	"github.com/ipetrenko/cardshop/internal/log"
	"github.com/ipetrenko/cardshop/internal/otel"
)

type ProductController struct {
	service service.ProductService
}

func AttachProductController(mux *mux.Router, service service.ProductService) {
	controller := ProductController{service: service}

	router := mux.PathPrefix("/products").Subrouter()
	router.HandleFunc("", controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc("/{productId}", controller.FindProductById).Methods(http.MethodGet)
	router.HandleFunc("/{productId}/reviews", controller.FindReviews).Methods(http.MethodGet)
	router.HandleFunc("/{productId}/reviews", controller.InsertReview).Methods(http.MethodPost)
}

func (t ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProducts").
		Str(log.KeyProcess, "finding products").
		Logger()

	query := r.URL.Query()
	param := repository.FindProductsParams{
		Category: query.Get("category"),
		Rarity:   query.Get("rarity"),
		Search:   query.Get("q"),
	}
	logger.Info().Msg("finding products")
	c = logger.WithContext(c)
	products, err := t.service.FindProducts(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "products found",
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (t ProductController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "ProductController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProductById").
		Str(log.KeyProcess, "validating productId").
		Logger()

	logger.Info().Msg("validating productId")
	pathValues := mux.Vars(r)
	productId, err := uuid.Parse(pathValues["productId"])
	if err != nil {
		err = fmt.Errorf("failed validating productId=%s with error=%w", pathValues["productId"], err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyProductID, productId.String()).Logger()
	logger.Info().Msgf("validated productId=%s", productId.String())

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msgf("finding productId=%s", productId.String())
	c = logger.WithContext(c)
	product, err := t.service.FindProductById(c, productId)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", productId.String(), err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found productId=%s", productId.String())

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("productId=%s found", productId.String()),
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (t ProductController) FindReviews(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "ProductController FindReviews")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindReviews").
		Str(log.KeyProcess, "validating productId").
		Logger()

	pathValues := mux.Vars(r)
	productId, err := uuid.Parse(pathValues["productId"])
	if err != nil {
		err = fmt.Errorf("failed validating productId=%s with error=%w", pathValues["productId"], err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyProductID, productId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "finding reviews").Logger()
	logger.Info().Msgf("finding reviews for productId=%s", productId.String())
	c = logger.WithContext(c)
	reviews, err := t.service.FindReviews(c, productId)
	if err != nil {
		err = fmt.Errorf("failed finding reviews with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found reviews for productId=%s", productId.String())

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "reviews found",
		"data": map[string]interface{}{
			"reviews": reviews,
		},
	})
}

func (t ProductController) InsertReview(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "ProductController InsertReview")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController InsertReview").
		Str(log.KeyProcess, "validating productId").
		Logger()

	pathValues := mux.Vars(r)
	productId, err := uuid.Parse(pathValues["productId"])
	if err != nil {
		err = fmt.Errorf("failed validating productId=%s with error=%w", pathValues["productId"], err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyProductID, productId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Review{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "inserting review").Logger()
	logger.Info().Msg("inserting review")
	c = logger.WithContext(c)
	review, err := t.service.InsertReview(c, productId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting review with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("inserted review")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "review inserted",
		"data": map[string]interface{}{
			"review": review,
		},
	})
}
