package router

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/trailhead/http/req"
)

// A Handler produces the result of handling a request.
// A *resp.Response result is sent as-is; anything else becomes its content.
type Handler func(*req.Context) (any, error)

// A Filter wraps a Handler with additional behavior.
type Filter func(Handler) Handler

// Chain wraps h in filters so the first Filter runs first.
func Chain(h Handler, filters ...Filter) Handler {
	for i := len(filters) - 1; i >= 0; i-- {
		h = filters[i](h)
	}

	return h
}

// A Route maps a path and HTTP method to a Handler.
// Additional Filters run when a request matches the Route.
type Route struct {
	Path    string
	Method  string
	Handler Handler
	Filters []Filter
}

// A Table finds the Handler for a method and path.
type Table interface {
	Match(method, path string) (Handler, map[string]string, bool)
}

// Router is the route table of one execution context.
type Router struct {
	everyReq []Filter
	prefix   string
	r        *mux.Router
}

// New constructs an empty *Router.
func New() *Router {
	return &Router{r: mux.NewRouter()}
}

// Group returns a *Router registering routes beneath prefix.
// Filters already applied to every request are inherited.
func (r *Router) Group(prefix string) *Router {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return r
	}

	return &Router{
		everyReq: append([]Filter{}, r.everyReq...),
		prefix:   r.prefix + prefix,
		r:        r.r.PathPrefix(prefix).Subrouter(),
	}
}

// Prefix returns the path every route on r is registered beneath.
func (r *Router) Prefix() string { return r.prefix }

// Handle applies the Route to the *Router.
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleRoutes registers the set of Routes on the *Router and includes all the filters on each Route.
// Any Filter already assigned to a Route is appended to filters, so runs after the default set.
func (r *Router) HandleRoutes(routes []Route, filters ...Filter) {
	for _, route := range routes {
		if route.Handler == nil {
			continue
		}

		fs := append(append([]Filter{}, r.everyReq...), filters...)
		fs = append(fs, route.Filters...)

		mr := r.r.Handle(route.Path, matched{Chain(route.Handler, fs...)})
		if route.Method != "" {
			mr.Methods(route.Method)
		}
	}
}

// Get registers h for GET requests at path.
func (r *Router) Get(path string, h Handler, filters ...Filter) {
	r.Handle(Route{Path: path, Method: http.MethodGet, Handler: h, Filters: filters})
}

// Post registers h for POST requests at path.
func (r *Router) Post(path string, h Handler, filters ...Filter) {
	r.Handle(Route{Path: path, Method: http.MethodPost, Handler: h, Filters: filters})
}

// Put registers h for PUT requests at path.
func (r *Router) Put(path string, h Handler, filters ...Filter) {
	r.Handle(Route{Path: path, Method: http.MethodPut, Handler: h, Filters: filters})
}

// Delete registers h for DELETE requests at path.
func (r *Router) Delete(path string, h Handler, filters ...Filter) {
	r.Handle(Route{Path: path, Method: http.MethodDelete, Handler: h, Filters: filters})
}

// OnEveryRequest appends the filters to the existing stack
// that the *Router applies to routes registered afterward.
func (r *Router) OnEveryRequest(filters ...Filter) {
	r.everyReq = append(r.everyReq, filters...)
}

// Match finds the Handler registered for method and path, with the variables matched in path.
func (r *Router) Match(method, path string) (Handler, map[string]string, bool) {
	hr, err := http.NewRequest(method, "/", nil)
	if err != nil {
		return nil, nil, false
	}
	hr.URL.Path = path

	var m mux.RouteMatch
	if !r.r.Match(hr, &m) || m.MatchErr != nil {
		return nil, nil, false
	}

	h, ok := m.Handler.(matched)
	if !ok {
		return nil, nil, false
	}

	vars := make(map[string]string, len(m.Vars))
	for k, v := range m.Vars {
		vars[k] = v
	}

	return h.Handler, vars, true
}

// matched carries a Handler through the mux route table.
type matched struct {
	Handler Handler
}

// ServeHTTP satisfies http.Handler; matched Handlers only run through a Dispatcher.
func (matched) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}
