// Package router wires handlers onto the gin engine under the
// versioned API prefix.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	protected  []RouteRegistrar
	guard      []gin.HandlerFunc
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithGuard sets the middleware applied to protected registrars
func WithGuard(guard ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.guard = guard
	}
}

// NewRouter creates a new Router instance
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

// Register adds a public RouteRegistrar
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// RegisterProtected adds a RouteRegistrar behind the guard middleware
func (r *Router) RegisterProtected(registrar RouteRegistrar) *Router {
	r.protected = append(r.protected, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}

	guarded := r.engine.Group("/api/"+r.apiVersion, r.guard...)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(guarded)
	}
}
