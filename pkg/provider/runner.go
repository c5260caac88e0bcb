package provider

import (
	"context"
	"fmt"
	"strings"
)

// Runner invokes a model. identifier is a provider model path, optionally "owner/name:version".
type Runner interface {
	Run(ctx context.Context, identifier string, input map[string]interface{}) (Output, error)
}

type Route struct {
	Prefix string
	Runner Runner
}

// Router picks a runner by identifier prefix, falling back to the default runner.
type Router struct {
	routes   []Route
	fallback Runner
}

func NewRouter(fallback Runner, routes ...Route) *Router {
	return &Router{routes: routes, fallback: fallback}
}

func (r *Router) Run(ctx context.Context, identifier string, input map[string]interface{}) (Output, error) {
	for _, route := range r.routes {
		if route.Runner != nil && strings.HasPrefix(identifier, route.Prefix) {
			return route.Runner.Run(ctx, identifier, input)
		}
	}
	if r.fallback == nil {
		return nil, fmt.Errorf("no runner configured for %q", identifier)
	}
	return r.fallback.Run(ctx, identifier, input)
}
