package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/vrain/internal/card"
	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vrain/internal/logger"
)

type classifyResponse struct {
	URL      string          `json:"url"`
	Category domain.Category `json:"category"`
}

// Classify reports the category of ?url= without any network access.
func Classify(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link := strings.TrimSpace(r.URL.Query().Get("url"))
		if link == "" {
			writeError(w, http.StatusBadRequest, card.NoLinkMessage)
			return
		}
		writeJSON(w, http.StatusOK, classifyResponse{URL: link, Category: domain.Classify(link)})
	}
}

// Preview resolves ?url= into a preview. Resolution never fails; embed HTML
// is third-party markup and must be rendered sandboxed.
func Preview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link := strings.TrimSpace(r.URL.Query().Get("url"))
		if link == "" {
			writeError(w, http.StatusBadRequest, card.NoLinkMessage)
			return
		}

		p := d.Resolver.Resolve(r.Context(), link)
		d.Logger.Debug("preview resolved",
			logger.String("url", link),
			logger.String("category", string(p.Category)),
			logger.Bool("fallback", p.Fallback))

		writeJSON(w, http.StatusOK, p)
	}
}
