package deps

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/vrain/internal/api"
	"github.com/MrSnakeDoc/vrain/internal/index"
	"github.com/MrSnakeDoc/vrain/internal/logger"
	"github.com/MrSnakeDoc/vrain/internal/preview"
	redisstore "github.com/MrSnakeDoc/vrain/internal/store/redis"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	AllowedHosts   []string            // Host headers allowed to reach restricted endpoints
	AllowedCIDRS   []string            // IPs allowed to access infra/metrics/warm endpoints
	TrustProxy     bool                // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins    []string            // Origins allowed by CORS, "*" for any
	RequestTimeout time.Duration       // per-request timeout
	RateBurst      int                 // preview requests allowed in a burst per client IP
	RatePerMin     int                 // preview requests refilled per minute per client IP
	Resolver       *preview.Resolver   // link preview resolver
	Backend        *api.Client         // vrain backend; per-request sessions are bound with WithSession
	PreviewStore   *redisstore.Store   // shared preview cache (nil when Redis is disabled)
	WarmIndex      *index.MemoryIndex  // warmed bookmarks
	WarmTrigger    chan struct{}       // manual warm trigger (nil when the warmer is disabled)
	Gatherer       prometheus.Gatherer // served on /metrics
	RateLimited    prometheus.Counter  // preview requests rejected by the rate limiter
}
