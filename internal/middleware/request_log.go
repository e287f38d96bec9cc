package middleware

import (
	"net/http"
	"time"

	"amicus-backend/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger loguea una línea por request con el id que asigna
// chimw.RequestID. Nunca loguea bodies.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"request_id":  chimw.GetReqID(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if uid := RequesterID(r); uid != "" {
				fields["user_id"] = uid
			}

			switch {
			case status >= http.StatusInternalServerError:
				log.Error("http request", fields)
			case status >= http.StatusBadRequest:
				log.Warn("http request", fields)
			default:
				log.Info("http request", fields)
			}
		})
	}
}
