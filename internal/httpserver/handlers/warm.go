package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vrain/internal/index"
	"github.com/MrSnakeDoc/vrain/internal/logger"
)

type warmResponse struct {
	Status  string     `json:"status"`
	Flushed *int       `json:"flushed,omitempty"`
	LastRun *index.Run `json:"last_run,omitempty"`
}

// Warm queues a warm pass over the bookmark file. With ?flush=true the
// cached previews are dropped first so every link is fetched again.
func Warm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.WarmTrigger == nil {
			writeError(w, http.StatusNotFound, "warmer disabled, set VRAIN_BOOKMARK_FILE")
			return
		}
		log := d.Logger.With(logger.String("request_id", middleware.GetReqID(r.Context())))

		resp := warmResponse{Status: "queued"}
		if d.WarmIndex != nil {
			if run, ok := d.WarmIndex.LastRun(); ok {
				resp.LastRun = &run
			}
		}
		if flush, _ := strconv.ParseBool(r.URL.Query().Get("flush")); flush {
			n := 0
			if d.PreviewStore != nil {
				deleted, err := d.PreviewStore.FlushPreviews(r.Context())
				if err != nil {
					log.Error("failed to flush shared preview cache", logger.Error(err))
					writeError(w, http.StatusBadGateway, "failed to flush preview cache")
					return
				}
				n = deleted
			}
			d.Resolver.Forget()
			resp.Flushed = &n
			log.Info("preview caches flushed", logger.Int("shared_keys", n))
		}

		select {
		case d.WarmTrigger <- struct{}{}:
			log.Info("manual warm queued")
			writeJSON(w, http.StatusAccepted, resp)
		default:
			log.Warn("warm already queued")
			writeError(w, http.StatusTooManyRequests, "warm already in progress")
		}
	}
}
