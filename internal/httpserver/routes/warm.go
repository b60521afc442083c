package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vrain/internal/httpserver/handlers"
)

func init() { Register("warm", Admin, registerWarm) }

func registerWarm(r chi.Router, d deps.Deps) {
	r.Post("/warm", handlers.Warm(d))
}
