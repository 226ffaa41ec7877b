package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/ipetrenko/cardshop/internal/constants"
)

var Tracer = otel.Tracer(constants.AppCatalogService)
