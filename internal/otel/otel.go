package otel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/propagators/jaeger"
	"go.opentelemetry.io/contrib/propagators/ot"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ipetrenko/cardshop/internal/config"
	"github.com/ipetrenko/cardshop/internal/log"
	"github.com/ipetrenko/cardshop/internal/otel/metric"
	"github.com/ipetrenko/cardshop/internal/otel/trace"
)

type ShutdownFunc func(context.Context) error

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
		jaeger.Jaeger{},
		ot.OT{},
	)
}

func InitOtelSdk(
	c context.Context,
	serviceName string,
	cfg config.Otel,
) (shutdownFuncs []ShutdownFunc, err error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "InitOtelSdk").
		Logger()

	endpoint := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	logger = logger.With().Str(log.KeyProcess, "init propagator").Logger()
	logger.Info().Msg("initializing otel propagator")
	otel.SetTextMapPropagator(newPropagator())
	logger.Info().Msg("initialized otel propagator")

	logger = logger.With().Str(log.KeyProcess, "init tracerProvider").Logger()
	logger.Info().Msg("initializing otel tracerProvider")
	tracerProvider, err := trace.InitTracerProvider(c, endpoint, serviceName)
	if err != nil {
		err = fmt.Errorf("failed initializing otel tracerProvider with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	otel.SetTracerProvider(tracerProvider)
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	logger.Info().Msg("initialized otel tracerProvider")

	logger = logger.With().Str(log.KeyProcess, "init meterProvider").Logger()
	logger.Info().Msg("initializing otel meterProvider")
	meterProvider, err := metric.InitMeterProvider(c, endpoint)
	if err != nil {
		err = fmt.Errorf("failed initializing otel meterProvider with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return shutdownFuncs, err
	}
	otel.SetMeterProvider(meterProvider)
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	logger.Info().Msg("initialized otel meterProvider")

	return shutdownFuncs, nil
}

func ShutdownOtel(c context.Context, shutdownFuncs []ShutdownFunc) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var joined error
	for _, shutdown := range shutdownFuncs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := shutdown(c); err != nil {
				mu.Lock()
				joined = errors.Join(joined, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return joined
}
