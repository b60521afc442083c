package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/vrain/internal/logger"
	"github.com/MrSnakeDoc/vrain/internal/utils"
)

// probes are polled constantly by orchestrators; they only log at debug.
var probes = map[string]bool{"/healthz": true, "/readyz": true}

// Log writes one access line per request. Server errors log at warn level so
// failed preview fetches and backend outages stand out.
func Log(log logger.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("route", routePattern(r)),
				logger.String("path", r.URL.Path),
				logger.Int("status", status),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Duration("duration", time.Since(start)),
				logger.String("client_ip", utils.ClientIP(r, trustProxy)),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}
			if link := r.URL.Query().Get("url"); link != "" {
				fields = append(fields, logger.String("link", link))
			}

			switch {
			case status >= http.StatusInternalServerError:
				log.Warn("request failed", fields...)
			case probes[r.URL.Path]:
				log.Debug("probe", fields...)
			default:
				log.Info("request", fields...)
			}
		})
	}
}

// routePattern returns the chi pattern that matched, e.g. /api/v1/cards/{id}.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
