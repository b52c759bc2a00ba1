package ranger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/bundle"
	"github.com/xy-planning-network/trailhead/component"
	"github.com/xy-planning-network/trailhead/config"
	"github.com/xy-planning-network/trailhead/fault"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/http/router"
	"github.com/xy-planning-network/trailhead/http/session"
	"github.com/xy-planning-network/trailhead/http/template"
	"github.com/xy-planning-network/trailhead/logger"
)

// A Bootstrap carries one execution context from an incoming request to its response.
// A Bootstrap is used once and is not safe for concurrent use.
type Bootstrap struct {
	rng       *Ranger
	transport resp.Transport
	request   *http.Request
	requestID string

	faults    *fault.Unifier
	optErr    error
	responder *resp.Responder

	resolver   *component.Resolver
	bundles    *bundle.Registry
	router     *router.Router
	dispatcher *router.Dispatcher
	lifecycle  session.Lifecycle
}

func newBootstrap(rng *Ranger, t resp.Transport, r *http.Request) *Bootstrap {
	b := &Bootstrap{rng: rng, transport: t, request: r}

	b.requestID = trailhead.RequestIDFromContext(r.Context())
	if b.requestID == "" {
		b.requestID = uuid.NewString()
		b.request = r.WithContext(trailhead.NewRequestIDContext(r.Context(), b.requestID))
	}

	b.responder = resp.NewResponder(
		resp.WithCharset(rng.cfg.String("application.encoding", resp.DefaultCharset)),
		resp.WithFiles(resp.FSFiles{}),
		resp.WithRenderer(template.NewRenderer(rng.p, b)),
	)

	opts, err := faultOptions(rng.cfg)
	b.optErr = err
	opts = append(
		opts,
		fault.WithPages(b.responder),
		fault.WithReporter(fault.LogReporter(rng.l, b.requestID)),
	)
	b.faults = fault.NewUnifier(t, opts...)

	return b
}

// faultOptions reads the error.* config group.
// Whatever cannot be parsed is left at the *fault.Unifier's default and returned as an error.
func faultOptions(cfg *config.Store) ([]fault.Option, error) {
	opts := []fault.Option{
		fault.WithDetail(cfg.Bool("error.detail", false)),
		fault.WithLogging(cfg.Bool("error.log", true)),
	}

	mask := cfg.Int("error.reporting", -1)
	if mask < 0 {
		opts = append(opts, fault.WithReporting(fault.All))
	} else {
		opts = append(opts, fault.WithReporting(fault.Code(mask)))
	}

	if !cfg.Has("error.ignore") {
		return opts, nil
	}

	codes, err := fault.ParseCodes(cfg.Strings("error.ignore", nil))
	if err != nil {
		return opts, fmt.Errorf("%w: error.ignore: %s", ErrBadConfig, err)
	}

	return append(opts, fault.WithIgnore(codes...)), nil
}

// Run drives the execution context, returning its exit status.
func (b *Bootstrap) Run() int {
	code := fault.Guard(func() {
		defer b.faults.Terminate()
		defer b.faults.Recover()

		b.run()
	})

	switch {
	case code != 0 || b.faults.Handled():
		b.rng.metrics.Observe(OutcomeFault)
	case b.dispatcher != nil && b.dispatcher.Matched():
		b.rng.metrics.Observe(OutcomeMatched)
	default:
		b.rng.metrics.Observe(OutcomeUnmatched)
	}

	return code
}

func (b *Bootstrap) run() {
	b.faults.Handle(b.optErr)

	cfg := b.rng.cfg
	b.resolver = component.NewResolver(
		component.FSSource{FS: b.rng.p.FS()},
		component.WithMap(cfg.StringMap("application.components")),
	)
	b.resolver.AddRoot("", ViewsDir)

	loc := b.timezone(cfg.String("application.timezone", "UTC"))

	if driver := cfg.String("session.driver", ""); driver != "" && b.rng.sessions != nil {
		b.lifecycle = b.rng.sessions()
		b.faults.Handle(b.lifecycle.Start(driver))
		b.faults.Handle(b.lifecycle.Load(b.request))
	}

	c, err := req.Build(b.request)
	b.faults.Handle(err)
	c.Location = loc
	c.Faults = b.faults
	c.Responder = b.responder
	if b.lifecycle != nil {
		c.Session = b.lifecycle.Payload()
	}

	b.router = router.New()
	b.bundles, err = bundle.NewRegistry(b.resolver, b.router, b, b.rng.bundles...)
	b.faults.Handle(err)
	b.resolver.Use(component.BundleStrategy{Bundles: b.bundles})
	b.faults.Handle(b.startBundles(c))

	b.dispatcher = router.NewDispatcher(b.router, b.responder)
	res, err := b.dispatcher.Dispatch(c)
	b.faults.Handle(err)

	if b.lifecycle != nil {
		b.faults.Handle(b.lifecycle.Save(b.transport, b.request))
	}

	b.faults.Store(res.Send(b.transport))
}

// timezone loads the named location, falling back to UTC.
func (b *Bootstrap) timezone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc
	}

	b.faults.Raise(fault.Notice, fmt.Sprintf("timezone %q is invalid, using UTC: %s", name, err))
	return time.UTC
}

// startBundles starts the always-on bundles, the DefaultBundle,
// then whichever bundle handles the request's first path segment.
func (b *Bootstrap) startBundles(c *req.Context) error {
	for _, name := range b.rng.cfg.Strings("application.bundles", nil) {
		if err := b.bundles.Start(name); err != nil {
			return err
		}
	}

	if b.bundles.Known(bundle.DefaultBundle) {
		if err := b.bundles.Start(bundle.DefaultBundle); err != nil {
			return err
		}
	}

	seg, ok := c.Segment(0)
	if !ok {
		return nil
	}

	name, ok := b.bundles.Handling(seg)
	if !ok || !b.bundles.Routable(name) {
		return nil
	}

	return b.bundles.Start(name)
}

// Config exposes the app's *config.Store to starting bundles.
func (b *Bootstrap) Config() *config.Store { return b.rng.cfg }

// Logger exposes the app's logger.Logger to starting bundles.
func (b *Bootstrap) Logger() logger.Logger { return b.rng.l }

// Resolver exposes the execution context's *component.Resolver.
func (b *Bootstrap) Resolver() *component.Resolver { return b.resolver }

// Resolve locates the view name for rendering.
// Views can only be located once the execution context's resolver exists.
func (b *Bootstrap) Resolve(name string) (string, error) {
	if b.resolver == nil {
		return "", fmt.Errorf("%w: resolving %q before bootstrap", trailhead.ErrNotExist, name)
	}

	return b.resolver.Resolve(name)
}
