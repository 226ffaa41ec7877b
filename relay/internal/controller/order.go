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
	inOtel "github.com/ipetrenko/cardshop/internal/otel"
	"github.com/ipetrenko/cardshop/order"
	"github.com/ipetrenko/cardshop/relay/internal/otel"
	"github.com/ipetrenko/cardshop/relay/internal/service"
)

type OrderController struct {
	notifier *service.TelegramNotifier
}

func AttachOrderController(router *mux.Router, notifier *service.TelegramNotifier) {
	controller := OrderController{notifier: notifier}

	router.HandleFunc("/orders", controller.RelayOrder).Methods(http.MethodPost)
}

// RelayOrder accepts an order submission and forwards it to the notification
// channel. The response shape is fixed by the storefront contract:
// 200 {"success":true} or 500 {"error":"..."}.
func (t OrderController) RelayOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController RelayOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController RelayOrder").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	submission := order.Submission{}
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeRelayError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, submission); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeRelayError(w, http.StatusBadRequest, "invalid order submission")
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "forwarding order").Logger()
	logger.Info().Msg("forwarding order")
	c = logger.WithContext(c)
	if err := t.notifier.SendOrder(c, submission); err != nil {
		err = fmt.Errorf("failed forwarding order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		// Missing upstream credentials stay a server-side detail: the client
		// sees the same generic failure as any other relay fault.
		message := err.Error()
		if errors.Is(err, inErrors.ErrMissingCredentials) {
			message = "failed sending order notification"
		}
		writeRelayError(w, http.StatusInternalServerError, message)
		return
	}
	logger.Info().Msg("forwarded order")

	w.Header().Set(inHttp.KeyHeaderContentType, inHttp.ValueHeaderJson)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

func writeRelayError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set(inHttp.KeyHeaderContentType, inHttp.ValueHeaderJson)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{"error": message})
}
