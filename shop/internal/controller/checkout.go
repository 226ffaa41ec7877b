package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ipetrenko/cardshop/checkout"
	inHttp "github.com/ipetrenko/cardshop/internal/http"
	"github.com/ipetrenko/cardshop/internal/log"
	"github.com/ipetrenko/cardshop/internal/otel"
	"github.com/ipetrenko/cardshop/order"
	commonOtel "github.com/ipetrenko/cardshop/shop/internal/otel"
	"github.com/ipetrenko/cardshop/shop/internal/session"
	"github.com/ipetrenko/cardshop/shop/request"
	"github.com/ipetrenko/cardshop/shop/response"
)

type CheckoutController struct{}

func AttachCheckoutController(mux *mux.Router) {
	controller := CheckoutController{}

	router := mux.PathPrefix("/checkout").Subrouter()
	router.HandleFunc("", controller.GetCheckout).Methods(http.MethodGet)
	router.HandleFunc("/proceed", controller.Proceed).Methods(http.MethodPost)
	router.HandleFunc("/back", controller.Back).Methods(http.MethodPost)
	router.HandleFunc("/contact", controller.PutContact).Methods(http.MethodPut)
	router.HandleFunc("/confirm", controller.Confirm).Methods(http.MethodPost)
}

func (t CheckoutController) GetCheckout(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "CheckoutController GetCheckout")
	defer span.End()

	sess := session.FromContext(c)
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "checkout found",
		"data": map[string]interface{}{
			"checkout": response.NewCheckout(sess.Checkout),
		},
	})
}

func (t CheckoutController) Proceed(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "CheckoutController Proceed")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController Proceed").
		Str(log.KeyProcess, "proceeding to contact form").
		Logger()

	logger.Info().Msg("proceeding to contact form")
	sess := session.FromContext(c)
	if err := sess.Checkout.Proceed(); err != nil {
		err = fmt.Errorf("failed proceeding to contact form with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusConflict,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("proceeded to contact form")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "proceeded to contact form",
		"data": map[string]interface{}{
			"checkout": response.NewCheckout(sess.Checkout),
		},
	})
}

func (t CheckoutController) Back(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "CheckoutController Back")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController Back").
		Str(log.KeyProcess, "returning to browsing").
		Logger()

	logger.Info().Msg("returning to browsing")
	sess := session.FromContext(c)
	if err := sess.Checkout.Back(); err != nil {
		err = fmt.Errorf("failed returning to browsing with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusConflict,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("returned to browsing")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "returned to browsing",
		"data": map[string]interface{}{
			"checkout": response.NewCheckout(sess.Checkout),
		},
	})
}

func (t CheckoutController) PutContact(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "CheckoutController PutContact")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController PutContact").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Contact{}
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

	logger = logger.With().Str(log.KeyProcess, "storing contact").Logger()
	logger.Info().Msg("storing contact")
	sess := session.FromContext(c)
	sess.Checkout.SetContact(order.Contact{Name: reqBody.Name, Phone: reqBody.Phone})
	logger.Info().Msg("stored contact")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "stored contact",
		"data": map[string]interface{}{
			"checkout": response.NewCheckout(sess.Checkout),
		},
	})
}

func (t CheckoutController) Confirm(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "CheckoutController Confirm")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController Confirm").
		Str(log.KeyProcess, "confirming order").
		Logger()

	logger.Info().Msg("confirming order")
	sess := session.FromContext(c)
	c = logger.WithContext(c)
	if err := sess.Checkout.Confirm(c); err != nil {
		err = fmt.Errorf("failed confirming order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode, message := confirmFailure(err)
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    message,
		})
		return
	}
	logger.Info().Msg("confirmed order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "order sent",
		"data": map[string]interface{}{
			"checkout": response.NewCheckout(sess.Checkout),
		},
	})
}

// confirmFailure maps a confirm error to a response. Guard violations keep
// their message; a delivery failure is reported as a retryable fault without
// leaking what went wrong behind the relay.
func confirmFailure(err error) (int, string) {
	switch {
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		return http.StatusConflict, err.Error()
	case errors.Is(err, checkout.ErrContactRequired),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidTransition):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusBadGateway, "could not send order, please try again"
	}
}
