// file: internal/middleware/structured_logger.go
package middleware

import (
	"net/http"
	"time"

	"speakerhub/internal/contextutils"

	"go.uber.org/zap"
)

const slowRequestThreshold = time.Second

// statusRecorder captures the status code written by the handler chain.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// StructuredLogging logs one line per request with latency and outcome.
func StructuredLogging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			fields := []zap.Field{
				zap.String("request_id", contextutils.GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", duration),
				zap.String("remote_addr", r.RemoteAddr),
			}
			if userID := contextutils.GetUserID(r.Context()); userID > 0 {
				fields = append(fields, zap.Int64("user_id", userID))
			}

			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("Request completed", fields...)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("Request completed", fields...)
			case duration > slowRequestThreshold:
				logger.Warn("Slow request", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
		})
	}
}
