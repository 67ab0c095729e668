package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by HTTP handlers that attach their
// routes to a shared router group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects handler registrations and mounts them under a
// versioned API prefix.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithAPIVersion overrides the default "v1" prefix segment.
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter wraps a gin engine. Routes are not mounted until Setup.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register queues one or more registrars; it returns the Router so
// calls can be chained.
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts every queued registrar under /api/<version>.
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}
