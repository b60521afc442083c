package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type healthzResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Cache   string `json:"cache"`
	Warming bool   `json:"warming"`
	buildInfo
}

// Healthz is the liveness probe. It never touches Redis or the backend;
// /readyz and /infra probe those.
func Healthz(d deps.Deps) http.HandlerFunc {
	build := buildInfo{
		Version:   d.Version,
		Commit:    d.Commit,
		BuildDate: d.BuildDate,
		GoVersion: d.GoVersion,
	}
	cache := "memory"
	if d.PreviewStore != nil {
		cache = "redis"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:    "ok",
			Uptime:    time.Since(d.StartTime).Truncate(time.Second).String(),
			Cache:     cache,
			Warming:   d.WarmTrigger != nil,
			buildInfo: build,
		})
	}
}
