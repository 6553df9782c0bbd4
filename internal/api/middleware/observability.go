package middleware

import (
	"net/http"
	"time"

	"github.com/jsimpson73/test-med-app/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
)

// ObservabilityMiddleware adds OpenTelemetry tracing and metrics to HTTP requests
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			ctx, span := observability.StartSpan(r.Context(), "http.request")
			defer span.End()

			// ServeMux fills in Pattern on the request it is handed.
			req := r.WithContext(ctx)
			next.ServeHTTP(rw, req)

			route := req.Pattern
			if route == "" {
				route = r.URL.Path
			}
			span.SetName(route)
			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, time.Since(start))
			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.Int("http.status_code", rw.statusCode),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
