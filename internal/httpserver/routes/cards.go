package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vrain/internal/httpserver/handlers"
)

func init() { Register("cards", Public, registerCards) }

func registerCards(r chi.Router, d deps.Deps) {
	r.Route("/api/v1/cards", func(r chi.Router) {
		r.Get("/", handlers.Cards(d))
		r.Post("/{id}/share", handlers.ShareCard(d))
		r.Delete("/{id}", handlers.DeleteCard(d))
	})
}
