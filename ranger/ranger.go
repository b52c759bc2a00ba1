package ranger

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/bundle"
	"github.com/xy-planning-network/trailhead/config"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/http/session"
	"github.com/xy-planning-network/trailhead/http/template"
	"github.com/xy-planning-network/trailhead/logger"
)

// A Ranger holds everything a trailhead app shares across execution contexts.
// After New returns, a *Ranger is read-only and safe for concurrent use;
// each execution context gets its own Bootstrap.
type Ranger struct {
	accessLog io.Writer
	bundles   []bundle.Bundle
	cfg       *config.Store
	ctx       context.Context
	env       trailhead.Environment
	l         logger.Logger
	metrics   *Metrics
	p         *template.Parser
	sessions  func() session.Lifecycle
	srv       *http.Server
	url       *url.URL
	views     []fs.FS
}

// New constructs a *Ranger from the provided options.
// Whatever the options leave unset is configured by default,
// reading environment variables and the YAML files in CONFIG_DIR.
func New(opts ...RangerOption) (*Ranger, error) {
	r := new(Ranger)
	followups := make([]OptFollowup, 0)

	// Calling an option configures the *Ranger under construction.
	// Options needing data from others return an OptFollowup,
	// called once the defaults those depend on are in place.
	for _, opt := range opts {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	if err := r.baseDefaults(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
		}
	}

	if err := r.defaults(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
	}

	return r, nil
}

// baseDefaults sets what followups depend on.
func (r *Ranger) baseDefaults() error {
	if r.env == "" {
		r.env = trailhead.EnvVarOrEnv(environmentEnvVar, trailhead.Development)
	}

	if r.l == nil {
		r.l = defaultLogger(r.env)
	}

	if r.cfg == nil {
		cfg, err := defaultConfig()
		if err != nil {
			return err
		}
		r.cfg = cfg
	}

	if r.url == nil {
		r.url = defaultURL(r.cfg)
	}

	return nil
}

func (r *Ranger) defaults() error {
	if r.p == nil {
		r.p = defaultParser(r.env, r.url, r.cfg.String("application.title", ""), r.views)
	}

	if r.sessions == nil {
		svc, err := defaultSessions(r.env, r.cfg)
		if err != nil {
			return err
		}

		if svc != nil {
			r.sessions = func() session.Lifecycle { return session.NewManager(svc) }
		}
	}

	if r.metrics == nil {
		r.metrics = NewMetrics()
	}

	if r.accessLog == nil {
		r.accessLog = os.Stdout
	}

	if r.srv == nil {
		r.srv = defaultServer(r.ctx)
	}

	return nil
}

func (r *Ranger) debug(msg string) {
	if r.l != nil {
		r.l.Debug(msg, nil)
	}
}

// Config exposes the *config.Store every execution context reads.
func (r *Ranger) Config() *config.Store { return r.cfg }

// Env exposes the Environment the app runs in.
func (r *Ranger) Env() trailhead.Environment { return r.env }

// Logger exposes the app's logger.Logger.
func (r *Ranger) Logger() logger.Logger { return r.l }

// Metrics exposes the counters execution contexts report to.
func (r *Ranger) Metrics() *Metrics { return r.metrics }

// Run drives one execution context: req is dispatched and the response written to t.
// Run returns the exit status, 0 unless a fault went unrecovered.
func (r *Ranger) Run(t resp.Transport, req *http.Request) int {
	return newBootstrap(r, t, req).Run()
}

// ServeHTTP runs an execution context for each request.
func (r *Ranger) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Run(resp.NewHTTPTransport(w, req.Proto), req)
}

// Handler wraps the *Ranger with the middlewares the web server uses
// and serves Metrics at MetricsPath.
func (r *Ranger) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, r.metrics.Handler())
	mux.Handle("/", middleware.Chain(r, middleware.RequestID(), middleware.LogRequest(r.l)))

	return handlers.ProxyHeaders(handlers.CombinedLoggingHandler(r.accessLog, mux))
}

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (r *Ranger) Guide() error {
	base := r.ctx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			cancel()
		case <-ctx.Done():
		}
	}()

	errs := make(chan error, 1)
	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		r.srv.Handler = r.Handler()
		if err := r.srv.ListenAndServe(); err != http.ErrServerClosed {
			errs <- fmt.Errorf("could not listen: %w", err)
		}
	}()

	select {
	case err := <-errs:
		r.l.Error(err.Error(), nil)
		return err
	case <-ctx.Done():
	}

	return r.Shutdown()
}

// Shutdown shutdowns the web server.
func (r *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.srv.Shutdown(shutdownCtx)
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}
