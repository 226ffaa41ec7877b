package trace

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/ipetrenko/cardshop/internal/log"
)

func InitTracerProvider(
	c context.Context,
	endpoint string,
	serviceName string,
) (*trace.TracerProvider, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "InitTracerProvider").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing traceExporter").Logger()
	logger.Info().Msg("initializing traceExporter")
	traceExporter, err := otlptracegrpc.New(
		c,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		logger.Error().
			Err(err).
			Msgf("failed creating traceExporter with error=%s", err.Error())
		return nil, err
	}
	logger.Info().Msg("initialized traceExporter")

	logger = logger.With().Str(log.KeyProcess, "initializing tracerProvider").Logger()
	logger.Info().Msg("initializing tracerProvider")
	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter, trace.WithBatchTimeout(5*time.Second)),
		trace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceName(serviceName),
			),
		),
	)
	logger.Info().Msg("initialized tracerProvider")

	return tracerProvider, nil
}
