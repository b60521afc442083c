package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vrain/internal/httpserver/mw"
	"github.com/MrSnakeDoc/vrain/internal/logger"
)

// Access decides which guards wrap a route group.
type Access int

const (
	// Public routes are open to any caller.
	Public Access = iota
	// Operator routes require a client IP inside AllowedCIDRS.
	Operator
	// Admin routes are Operator routes that also check the Host header.
	Admin
)

func (a Access) String() string {
	switch a {
	case Operator:
		return "operator"
	case Admin:
		return "admin"
	default:
		return "public"
	}
}

// Registrar mounts one group of handlers.
type Registrar func(r chi.Router, d deps.Deps)

type group struct {
	name   string
	access Access
	mount  Registrar
}

var groups []group

// Register adds a route group. Files in this package call it from init.
func Register(name string, access Access, mount Registrar) {
	groups = append(groups, group{name: name, access: access, mount: mount})
}

// RegisterAll mounts every registered group behind the guards its access
// level requires.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range groups {
		g.mount(r.With(guards(g.access, d)...), d)
		d.Logger.Debug("routes mounted",
			logger.String("group", g.name),
			logger.String("access", g.access.String()))
	}
}

func guards(a Access, d deps.Deps) []func(http.Handler) http.Handler {
	switch a {
	case Operator:
		return []func(http.Handler) http.Handler{
			mw.RequireNetwork(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		}
	case Admin:
		return []func(http.Handler) http.Handler{
			mw.RequireNetwork(d.AllowedCIDRS, d.TrustProxy, d.Logger),
			mw.RequireHost(d.AllowedHosts, d.Logger),
		}
	default:
		return nil
	}
}
