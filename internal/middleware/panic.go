package middleware

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	inHttp "github.com/ipetrenko/cardshop/internal/http"
	"github.com/ipetrenko/cardshop/internal/otel"
)

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, span := tracer.Start(r.Context(), "RecoverPanic")
		defer span.End()

		logger := zerolog.Ctx(c).With().Logger()
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				logger.Error().Err(err).Stack().Msg("recovered from panic")
				otel.RecordError(err, span)
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusInternalServerError,
					"message":    "Internal Server Error",
				})
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}
