package metric

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/ipetrenko/cardshop/internal/log"
)

func InitMeterProvider(c context.Context, endpoint string) (*metric.MeterProvider, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "InitMeterProvider").
		Logger()

	logger.Info().Msg("initializing metricExporter")
	metricExporter, err := otlpmetricgrpc.New(
		c,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		logger.Error().
			Err(err).
			Msgf("failed creating metricExporter with error=%s", err.Error())
		return nil, err
	}
	logger.Info().Msg("initialized metricExporter")

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(
			metric.NewPeriodicReader(metricExporter, metric.WithInterval(5*time.Second)),
		),
	)
	return meterProvider, nil
}
