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

	"github.com/ipetrenko/cardshop/catalog/internal/controller"
	commonOtel "github.com/ipetrenko/cardshop/catalog/internal/otel"
	"github.com/ipetrenko/cardshop/catalog/internal/repository"
	"github.com/ipetrenko/cardshop/catalog/internal/service"
	"github.com/ipetrenko/cardshop/internal/config"
	"github.com/ipetrenko/cardshop/internal/constants"
	"github.com/ipetrenko/cardshop/internal/infra"
	"github.com/ipetrenko/cardshop/internal/log"
	"github.com/ipetrenko/cardshop/internal/middleware"
	"github.com/ipetrenko/cardshop/internal/otel"
)

func RunCatalogService(c context.Context) {
	c, span := commonOtel.Tracer.Start(c, "RunCatalogService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCatalogService).
		Str(log.KeyTag, "main RunCatalogService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppCatalogService)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.AppCatalogService, cfg.Otel)
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

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	pool := infra.NewDatabaseClient(c, cfg.Database)
	defer pool.Close()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed closing cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.AppCatalogService),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing controllers").Logger()
	logger.Info().Msg("initializing controllers")
	queries := repository.New(pool)
	productService := service.NewProductService(queries, cache)
	adminService := service.NewAdminService(queries, cfg.Application.SecretKey)
	uploadService := service.NewUploadService(cfg.Storage)
	controller.AttachProductController(router, productService)
	controller.AttachAdminController(
		router,
		productService,
		adminService,
		uploadService,
		cfg.Application.SecretKey,
	)
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
