// Package bundle activates the units an application is split into.
//
// A Bundle contributes a search root for its components, a boot hook, and routes.
// Each execution context gets its own Registry,
// so a bundle starts at most once per request.
package bundle

import (
	"fmt"
	"strings"

	"github.com/xy-planning-network/trailhead/component"
	"github.com/xy-planning-network/trailhead/config"
	"github.com/xy-planning-network/trailhead/http/router"
	"github.com/xy-planning-network/trailhead/logger"
)

// DefaultBundle is the bundle whose components need no namespace and whose routes sit at the root.
const DefaultBundle = "application"

// A Host is what a starting Bundle can reach of its execution context.
type Host interface {
	Config() *config.Store
	Logger() logger.Logger
	Resolver() *component.Resolver
}

// A Bundle defines one unit of an application.
type Bundle struct {
	// Name namespaces the Bundle's components, e.g. "admin" in "admin::users.index".
	Name string

	// Location is the directory the Bundle's components are found beneath.
	Location string

	// Handles is the first path segment routing to the Bundle; it defaults to Name.
	// The DefaultBundle handles every path.
	Handles string

	// Boot runs once when the Bundle starts.
	Boot func(Host) error

	// Routes registers the Bundle's routes.
	Routes func(*router.Router)
}

func (b Bundle) handles() string {
	if b.Handles != "" {
		return strings.Trim(b.Handles, "/")
	}

	return b.Name
}

// A Registry tracks which of its Bundles have started in one execution context.
// A Registry is not safe for concurrent use.
type Registry struct {
	bundles  map[string]Bundle
	host     Host
	order    []string
	resolver *component.Resolver
	router   *router.Router
	started  map[string]bool
}

var _ component.Activator = (*Registry)(nil)

// NewRegistry constructs a *Registry over bundles.
// Starting a Bundle adds its search root to res and its routes to rt.
func NewRegistry(res *component.Resolver, rt *router.Router, host Host, bundles ...Bundle) (*Registry, error) {
	r := &Registry{
		bundles:  make(map[string]Bundle, len(bundles)),
		host:     host,
		resolver: res,
		router:   rt,
		started:  make(map[string]bool),
	}

	for _, b := range bundles {
		if b.Name == "" || strings.Contains(b.Name, component.NamespaceSep) {
			return nil, fmt.Errorf("%w: bundle name %q", ErrNotValid, b.Name)
		}

		if _, ok := r.bundles[b.Name]; ok {
			return nil, fmt.Errorf("%w: bundle %q registered twice", ErrNotValid, b.Name)
		}

		r.bundles[b.Name] = b
		r.order = append(r.order, b.Name)
	}

	return r, nil
}

// Names returns the names of the registered bundles in registration order.
func (r *Registry) Names() []string { return append([]string{}, r.order...) }

// Known reports whether name is a registered Bundle.
func (r *Registry) Known(name string) bool {
	_, ok := r.bundles[name]
	return ok
}

// Started reports whether the Bundle name has started.
func (r *Registry) Started(name string) bool { return r.started[name] }

// Start starts the Bundle name, if it has not already started:
// its search root is registered, then Boot runs, then its routes are registered.
func (r *Registry) Start(name string) error {
	b, ok := r.bundles[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBundle, name)
	}

	if r.started[name] {
		return nil
	}
	r.started[name] = true

	if r.resolver != nil && b.Location != "" {
		prefix := ""
		if name != DefaultBundle {
			prefix = name + component.NamespaceSep
		}
		r.resolver.AddRoot(prefix, b.Location)
	}

	if b.Boot != nil {
		if err := b.Boot(r.host); err != nil {
			return fmt.Errorf("booting bundle %q: %w", name, err)
		}
	}

	if b.Routes != nil && r.router != nil {
		rt := r.router
		if name != DefaultBundle {
			rt = rt.Group(b.handles())
		}
		b.Routes(rt)
	}

	return nil
}

// Routable reports whether the Bundle name can handle requests:
// it is the DefaultBundle or it has routes.
func (r *Registry) Routable(name string) bool {
	b, ok := r.bundles[name]
	if !ok {
		return false
	}

	return name == DefaultBundle || b.Routes != nil
}

// Handling returns the Bundle handling paths whose first segment is seg.
func (r *Registry) Handling(seg string) (string, bool) {
	if seg == "" {
		return "", false
	}

	for _, name := range r.order {
		if name == DefaultBundle {
			continue
		}

		if r.bundles[name].handles() == seg {
			return name, true
		}
	}

	return "", false
}
