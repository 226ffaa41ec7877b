package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	inHttp "github.com/ipetrenko/cardshop/internal/http"
	"github.com/ipetrenko/cardshop/internal/log"
)

var tracer = otel.Tracer("middleware")

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(inHttp.KeyHeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c, span := tracer.Start(
			r.Context(),
			"main Logging",
			trace.WithAttributes(
				attribute.String(log.KeyRequestID, requestID),
				attribute.String(log.KeyRequestHost, r.Host),
				attribute.String(log.KeyRequestIp, r.RemoteAddr),
				attribute.String(log.KeyRequestMethod, r.Method),
				attribute.String(log.KeyRequestURI, r.RequestURI),
			),
		)
		defer span.End()

		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyRequestID, requestID).
			Dict("request", zerolog.Dict().
				Str(log.KeyRequestHost, r.Host).
				Str(log.KeyRequestIp, r.RemoteAddr).
				Str(log.KeyRequestMethod, r.Method).
				Str(log.KeyRequestURI, r.RequestURI)).
			Str(log.KeyTag, "Logging").
			Logger()

		logger.Trace().Msg("attaching request value to context")
		c = log.AttachRequestIDToContext(c, requestID)
		c = logger.WithContext(c)
		r = r.WithContext(c)
		logger.Trace().Msg("attached request value to context")

		next.ServeHTTP(w, r)
	})
}
