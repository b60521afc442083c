package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vrain/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/vrain/internal/httpserver/mw"
)

func init() { Register("preview", Public, registerPreview) }

func registerPreview(r chi.Router, d deps.Deps) {
	r.Get("/api/v1/classify", handlers.Classify(d))
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.RateBurst,
		PerMinute:  d.RatePerMin,
		TrustProxy: d.TrustProxy,
		Rejected:   d.RateLimited,
	})).Get("/api/v1/preview", handlers.Preview(d))
}
