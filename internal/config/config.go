package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBackendURL     = "http://vrain-backend.codextarun.xyz"
	DefaultOEmbedEndpoint = "https://publish.x.com/oembed"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per HTTP request served (ex: 10s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Backend and previews
	BackendURL       string        // vrain REST backend
	OEmbedEndpoint   string        // oEmbed API used for tweets
	PlaceholderURL   string        // image shown when no preview resolves (empty = built-in)
	HTTPTimeout      time.Duration // timeout for every outbound request (default: 5s)
	PreviewCacheTTL  time.Duration // lifetime of cached previews (default: 24h)
	GenericScrape    bool          // look up og:image for generic links
	BreakerThreshold int64         // consecutive oEmbed failures before the breaker opens

	// CLI session
	SessionDir string // badger directory holding the bearer token

	// Preview warmer
	BookmarkFile    string        // path to the bookmarks YAML (optional, empty = warmer disabled)
	WarmInterval    time.Duration // interval between warm passes (default: 6h)
	WarmConcurrency int           // links resolved in parallel (default: 4)
	GCInterval      time.Duration // interval to drop removed bookmarks (default: 24h)

	// Redis (optional shared preview cache)
	RedisAddr             string        // ex: "localhost:6379", empty = memory cache only
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict /warm to specific Host headers
	AllowedCIDRS []string // optional, restrict infra endpoints to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateBurst    int      // preview requests per client IP in a burst
	RatePerMin   int      // preview requests refilled per minute per client IP
	CORSOrigins  []string // allowed origins, "*" for any
}

// RedisEnabled reports whether a shared preview cache is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("VRAIN_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("VRAIN_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("VRAIN_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("VRAIN_LOG_LEVEL", "info"),
		PrettyLog: mustBool("VRAIN_PRETTY_LOG", true),

		// Backend and previews
		BackendURL:       strings.TrimRight(getenv("VRAIN_BACKEND_URL", DefaultBackendURL), "/"),
		OEmbedEndpoint:   getenv("VRAIN_OEMBED_ENDPOINT", DefaultOEmbedEndpoint),
		PlaceholderURL:   getenv("VRAIN_PLACEHOLDER_URL", ""),
		HTTPTimeout:      mustDuration("VRAIN_HTTP_TIMEOUT", 5*time.Second),
		PreviewCacheTTL:  mustDuration("VRAIN_PREVIEW_CACHE_TTL", 24*time.Hour),
		GenericScrape:    mustBool("VRAIN_GENERIC_SCRAPE", false),
		BreakerThreshold: int64(getenvInt("VRAIN_BREAKER_THRESHOLD", 5)),

		SessionDir: getenv("VRAIN_SESSION_DIR", defaultSessionDir()),

		// Warmer
		BookmarkFile:    getenv("VRAIN_BOOKMARK_FILE", ""), // Optional, empty = warmer disabled
		WarmInterval:    mustDuration("VRAIN_WARM_INTERVAL", 6*time.Hour),
		WarmConcurrency: getenvInt("VRAIN_WARM_CONCURRENCY", 4),
		GCInterval:      mustDuration("VRAIN_GC_INTERVAL", 24*time.Hour),

		// Redis settings
		RedisAddr:             getenv("VRAIN_REDIS_ADDR", ""),
		RedisUser:             getenv("VRAIN_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("VRAIN_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("VRAIN_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("VRAIN_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("VRAIN_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("VRAIN_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("VRAIN_TRUST_PROXY", true),
		RateBurst:    getenvInt("VRAIN_RATE_BURST", 30),
		RatePerMin:   getenvInt("VRAIN_RATE_PER_MIN", 60),
		CORSOrigins:  splitAndTrim(getenv("VRAIN_CORS_ORIGINS", "*")),
	}

	// Validate Redis password configuration
	if cfg.RedisEnabled() && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: VRAIN_REDIS_PASSWORD is required when VRAIN_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	return cp
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".vrain", "session")
	}
	return filepath.Join(home, ".vrain", "session")
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
