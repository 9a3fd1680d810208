package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const correlationHeader = "X-Correlation-ID"

// RequestLogger logs every inbound request with a correlation ID. The ID is
// taken from the X-Correlation-ID header when the caller supplies one and
// generated otherwise; it is always echoed back on the response.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(correlationHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set(correlationHeader, correlationID)

		start := time.Now()
		next.ServeHTTP(ww, r)

		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"correlation_id", correlationID,
			"remote_addr", r.RemoteAddr,
		)
	})
}
