package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/ipetrenko/cardshop/internal/errors"
	inHttp "github.com/ipetrenko/cardshop/internal/http"
	"github.com/ipetrenko/cardshop/internal/log"
	"github.com/ipetrenko/cardshop/internal/otel"
	commonOtel "github.com/ipetrenko/cardshop/shop/internal/otel"
	"github.com/ipetrenko/cardshop/shop/internal/service"
	"github.com/ipetrenko/cardshop/shop/internal/session"
	"github.com/ipetrenko/cardshop/shop/request"
	"github.com/ipetrenko/cardshop/shop/response"
)

type CartController struct {
	catalog *service.CatalogClient
}

func AttachCartController(mux *mux.Router, catalog *service.CatalogClient) {
	controller := CartController{catalog: catalog}

	router := mux.PathPrefix("/cart").Subrouter()
	router.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	router.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/items", controller.AddCartItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{productId}", controller.UpdateCartItem).Methods(http.MethodPatch)
	router.HandleFunc("/items/{productId}", controller.RemoveCartItem).Methods(http.MethodDelete)
}

func (t CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	sess := session.FromContext(c)
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart found",
		"data": map[string]interface{}{
			"cart": response.NewCart(sess.Cart),
		},
	})
}

func (t CartController) AddCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "CartController AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddCartItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.AddCartItem{}
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

	logger = logger.With().
		Str(log.KeyProcess, "finding product").
		Str(log.KeyProductID, reqBody.ProductId).
		Logger()
	logger.Info().Msgf("finding productId=%s", reqBody.ProductId)
	c = logger.WithContext(c)
	product, err := t.catalog.FindProductById(c, reqBody.ProductId)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", reqBody.ProductId, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusBadGateway
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
	logger.Info().Msgf("found productId=%s", reqBody.ProductId)

	logger = logger.With().Str(log.KeyProcess, "adding cart item").Logger()
	logger.Info().Msg("adding cart item")
	sess := session.FromContext(c)
	sess.Cart.AddItem(product, reqBody.Quantity)
	logger.Info().Msg("added cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("added productId=%s to cart", reqBody.ProductId),
		"data": map[string]interface{}{
			"cart": response.NewCart(sess.Cart),
		},
	})
}

func (t CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "CartController UpdateCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateCartItem").
		Logger()

	pathValues := mux.Vars(r)
	productId := pathValues["productId"]
	logger = logger.With().Str(log.KeyProductID, productId).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.UpdateCartItem{}
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

	// A zero or negative quantity removes the line, so no lower bound here.
	logger = logger.With().Str(log.KeyProcess, "updating cart item").Logger()
	logger.Info().Msgf("updating productId=%s to quantity=%d", productId, reqBody.Quantity)
	sess := session.FromContext(c)
	sess.Cart.UpdateQuantity(productId, reqBody.Quantity)
	logger.Info().Msgf("updated productId=%s", productId)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("updated productId=%s", productId),
		"data": map[string]interface{}{
			"cart": response.NewCart(sess.Cart),
		},
	})
}

func (t CartController) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "CartController RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveCartItem").
		Str(log.KeyProcess, "removing cart item").
		Logger()

	pathValues := mux.Vars(r)
	productId := pathValues["productId"]
	logger = logger.With().Str(log.KeyProductID, productId).Logger()

	logger.Info().Msgf("removing productId=%s", productId)
	sess := session.FromContext(c)
	sess.Cart.RemoveItem(productId)
	logger.Info().Msgf("removed productId=%s", productId)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("removed productId=%s", productId),
		"data": map[string]interface{}{
			"cart": response.NewCart(sess.Cart),
		},
	})
}

func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Str(log.KeyProcess, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	sess := session.FromContext(c)
	sess.Cart.Clear()
	logger.Info().Msg("cleared cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cleared cart",
		"data": map[string]interface{}{
			"cart": response.NewCart(sess.Cart),
		},
	})
}
