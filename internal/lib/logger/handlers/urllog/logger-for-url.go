package urllog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// CustomLoggerMiddleware logs every incoming request with its method, URL
// and request id. Mount it after chi's RequestID middleware so the id is
// already present in the context.
func CustomLoggerMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info("request received",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
			next.ServeHTTP(w, r)
		})
	}
}
