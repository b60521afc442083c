package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Cache string `json:"cache"`
}

// Readyz reports ready once the resolver is wired. A configured Redis that
// does not answer degrades the cache to memory but keeps the service ready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{Ready: d.Resolver != nil, Cache: "memory"}
		if d.PreviewStore != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := d.PreviewStore.Ping(ctx); err == nil {
				resp.Cache = "redis"
			} else {
				resp.Cache = "memory (redis unreachable)"
			}
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
