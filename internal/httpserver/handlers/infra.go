package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vrain/internal/index"
)

type componentStatus struct {
	OK       bool           `json:"ok"`
	Mode     string         `json:"mode,omitempty"`
	Impact   string         `json:"impact,omitempty"`
	Error    string         `json:"error,omitempty"`
	Cached   *int           `json:"cached,omitempty"`
	Hits     *int64         `json:"hits,omitempty"`
	Summary  *index.Summary `json:"summary,omitempty"`
	Breaker  string         `json:"breaker,omitempty"`
	Disabled bool           `json:"disabled,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"resolver": checkResolver(d),
			"redis":    checkRedis(ctx, d),
			"warmer":   checkWarmer(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if resolver, ok := components["resolver"]; ok && !resolver.OK {
		return "fallback-only"
	}
	if redis, ok := components["redis"]; ok && !redis.OK && !redis.Disabled {
		return "degraded"
	}
	return "optimal"
}

func checkResolver(d deps.Deps) componentStatus {
	if d.Resolver == nil {
		return componentStatus{OK: false, Error: "resolver not initialized"}
	}
	cached := d.Resolver.CachedCount()
	if d.Resolver.BreakerOpen() {
		return componentStatus{
			OK:      false,
			Breaker: "open",
			Impact:  "tweets-render-as-icon",
			Cached:  &cached,
		}
	}
	return componentStatus{OK: true, Breaker: "closed", Cached: &cached}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.PreviewStore == nil {
		return componentStatus{OK: true, Disabled: true, Mode: "memory-only", Impact: "cache-not-shared"}
	}

	if err := d.PreviewStore.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "cache-not-shared",
			Error:  "timeout",
		}
	}

	status := componentStatus{OK: true, Mode: "optimal"}
	if n, err := d.PreviewStore.Count(ctx); err == nil {
		status.Cached = &n
	}
	if stats, err := d.PreviewStore.HitStats(ctx); err == nil {
		var total int64
		for _, v := range stats {
			total += v
		}
		status.Hits = &total
	}
	return status
}

func checkWarmer(d deps.Deps) componentStatus {
	if d.WarmTrigger == nil || d.WarmIndex == nil {
		return componentStatus{OK: true, Disabled: true}
	}
	s := d.WarmIndex.Summary()
	ok := s.LastRun != nil && s.LastRun.Error == ""
	status := componentStatus{OK: ok, Summary: &s}
	if s.LastRun != nil && s.LastRun.Error != "" {
		status.Error = s.LastRun.Error
	}
	return status
}
