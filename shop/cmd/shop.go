package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/ipetrenko/cardshop/internal/config"
	"github.com/ipetrenko/cardshop/internal/constants"
	"github.com/ipetrenko/cardshop/internal/log"
	"github.com/ipetrenko/cardshop/internal/middleware"
	"github.com/ipetrenko/cardshop/internal/otel"
	"github.com/ipetrenko/cardshop/order"
	"github.com/ipetrenko/cardshop/shop/internal/controller"
	commonOtel "github.com/ipetrenko/cardshop/shop/internal/otel"
	"github.com/ipetrenko/cardshop/shop/internal/service"
	"github.com/ipetrenko/cardshop/shop/internal/session"
)

const (
	sessionTTL      = 2 * time.Hour
	janitorInterval = 10 * time.Minute
)

func RunShopService(c context.Context) {
	c, span := commonOtel.Tracer.Start(c, "RunShopService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppShopService).
		Str(log.KeyTag, "main RunShopService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppShopService)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.AppShopService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing session store").Logger()
	logger.Info().Msg("initializing session store")
	gateway := order.NewGateway(cfg.Shop.RelayURL)
	store := session.NewStore(gateway, sessionTTL)
	store.StartJanitor(c, janitorInterval)
	logger.Info().Msg("initialized session store")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.AppShopService),
		middleware.Logging,
		middleware.RecoverPanic,
		session.Middleware(store),
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing controllers").Logger()
	logger.Info().Msg("initializing controllers")
	catalog := service.NewCatalogClient(cfg.Shop.CatalogURL)
	controller.AttachCartController(router, catalog)
	controller.AttachCheckoutController(router)
	logger.Info().Msg("initialized controllers")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	err = httpServer.Shutdown(c)
	if err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
