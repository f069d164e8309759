// Package observability provides request logging, metrics and tracing
// middleware for the site.
package observability

import (
	"net/http"
	"time"

	"github.com/lumenvpn/site/internal/platform/logging"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request with method, path, status, bytes,
// latency and request id.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logging.OrNop(logger)
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r, holder := withRouteHolder(r)
			rec := wrapResponse(w)
			next.ServeHTTP(rec, r)

			requestID := logging.RequestID(r.Context())
			if requestID == "" {
				requestID = r.Header.Get("X-Request-ID")
			}
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", holder.label()),
				zap.Int("status", rec.status()),
				zap.Int("bytes", rec.bytes),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", requestID),
			)
		})
	}
}
