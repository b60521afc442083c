package preview

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/vrain/internal/domain"
)

// Metrics counts resolutions by outcome.
type Metrics struct {
	Resolved  *prometheus.CounterVec
	CacheHits *prometheus.CounterVec
}

// NewMetrics creates the preview counters and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vrain",
			Name:      "previews_resolved_total",
			Help:      "Number of link previews resolved, by category, kind and fallback.",
		}, []string{"category", "kind", "fallback"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vrain",
			Name:      "preview_cache_hits_total",
			Help:      "Number of previews served from cache, by tier.",
		}, []string{"tier"}),
	}
	if reg != nil {
		reg.MustRegister(m.Resolved, m.CacheHits)
	}
	return m
}

func (m *Metrics) observe(p domain.PreviewResult) {
	if m == nil {
		return
	}
	m.Resolved.With(prometheus.Labels{
		"category": string(p.Category),
		"kind":     string(p.Kind),
		"fallback": strconv.FormatBool(p.Fallback),
	}).Inc()
}

func (m *Metrics) hit(tier string) {
	if m == nil {
		return
	}
	m.CacheHits.With(prometheus.Labels{"tier": tier}).Inc()
}
