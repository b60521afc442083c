package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vrain/internal/httpserver/handlers"
)

func init() { Register("infra", Operator, registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.Get("/infra", handlers.Infra(d))
	r.Method("GET", "/metrics", handlers.Metrics(d))
}
