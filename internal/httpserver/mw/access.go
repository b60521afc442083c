package mw

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/vrain/internal/logger"
	"github.com/MrSnakeDoc/vrain/internal/utils"
)

// Operator endpoints (/infra, /metrics, /warm) are only reachable by callers
// inside AllowedCIDRS, and /warm additionally checks the Host header.

// RequireNetwork rejects callers whose client IP is outside cidrs.
// An empty list disables the check.
func RequireNetwork(cidrs []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	matcher := utils.NewIPMatcher(cidrs)
	if matcher.IsEmpty() {
		return passthrough
	}
	log.Debug("operator routes restricted by network", logger.Strings("cidrs", cidrs), logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !matcher.Allow(ip) {
				deny(w, r, log, "client ip not allowed", logger.String("client_ip", ip))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireHost rejects requests whose Host header matches none of hosts.
// Patterns may start with "*." to accept any subdomain. An empty list
// disables the check.
func RequireHost(hosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(hosts) == 0 {
		return passthrough
	}
	patterns := make([]string, 0, len(hosts))
	for _, h := range hosts {
		patterns = append(patterns, strings.ToLower(h))
	}
	log.Debug("operator routes restricted by host", logger.Strings("hosts", patterns))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := requestHost(r)
			for _, p := range patterns {
				if hostMatches(host, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny(w, r, log, "host not allowed", logger.String("host", host))
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

// requestHost returns the lower-cased Host header without its port.
func requestHost(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}

func hostMatches(host, pattern string) bool {
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix) && len(host) > len(suffix)
	}
	return host == pattern
}

func deny(w http.ResponseWriter, r *http.Request, log logger.Logger, reason string, field logger.Field) {
	log.Warn("operator route refused",
		logger.String("reason", reason),
		logger.String("path", r.URL.Path),
		logger.String("request_id", middleware.GetReqID(r.Context())),
		field,
	)
	writeJSONError(w, http.StatusForbidden, "forbidden")
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
