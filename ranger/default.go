package ranger

import (
	"context"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/config"
	"github.com/xy-planning-network/trailhead/http/session"
	"github.com/xy-planning-network/trailhead/http/template"
	"github.com/xy-planning-network/trailhead/logger"
)

const (
	// Base URL defaults
	BaseURLEnvVar = "BASE_URL"

	// Config defaults
	ConfigDirEnvVar  = "CONFIG_DIR"
	DefaultConfigDir = "config"

	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar = "LOG_LEVEL"

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second

	// MetricsPath is where the web server exposes metrics.
	MetricsPath = "/metrics"

	// ViewsDir is searched for views not namespaced under a bundle, e.g. "error/404".
	ViewsDir = "views"
)

var defaultBaseURL = "http://" + DefaultHost + DefaultPort

// defaultConfig reads the YAML files in CONFIG_DIR, relative to the working directory.
func defaultConfig() (*config.Store, error) {
	dir := trailhead.EnvVarOrString(ConfigDirEnvVar, DefaultConfigDir)
	return config.Load(os.DirFS("."), dir)
}

// defaultLogger constructs the logger.Logger used throughout the app.
// logger.New sends errors to Sentry as well when SENTRY_DSN is set.
func defaultLogger(env trailhead.Environment) logger.Logger {
	return logger.New(
		logger.WithEnv(env.String()),
		logger.WithLevel(logger.NewLogLevel(trailhead.EnvVarOrString(logLevelEnvVar, "INFO"))),
	)
}

// defaultURL reads BASE_URL, falling back to the configured application.url.
func defaultURL(cfg *config.Store) *url.URL {
	def := cfg.String("application.url", "")
	if def == "" {
		def = defaultBaseURL
	}

	return trailhead.EnvVarOrURL(BaseURLEnvVar, def)
}

// defaultParser constructs a *template.Parser reading views from dirs.
//
// defaultParser makes available these functions in an HTML template:
//
//   - "env"
//   - "nonce"
//   - "rootURL"
//   - "title" returns the configured application.title
//   - "isDevelopment"
//   - "isProduction"
func defaultParser(env trailhead.Environment, u *url.URL, title string, dirs []fs.FS) *template.Parser {
	p := template.NewParser(dirs)
	p = p.AddFn(template.Env(env))
	p = p.AddFn("isDevelopment", env.IsDevelopment)
	p = p.AddFn("isProduction", env.IsProduction)
	p = p.AddFn(template.Nonce())
	p = p.AddFn(template.RootURL(u))
	p = p.AddFn(template.Title(title))

	return p
}

// defaultSessions constructs the *session.Service backing the configured session driver.
// Without a driver, sessions are off and defaultSessions returns nil.
//
// The cookie name defaults to one derived from application.title.
// Both keys must be valid hex encoded values; cf. [encoding/hex].
func defaultSessions(env trailhead.Environment, cfg *config.Store) (*session.Service, error) {
	if cfg.String("session.driver", "") == "" {
		return nil, nil
	}

	name := cfg.String("session.cookie", "")
	if name == "" {
		name = session.CookieName(cfg.String("application.title", ""))
	}

	return session.NewService(session.Config{
		Env:        env,
		Name:       name,
		Lifetime:   cfg.Int("session.lifetime", 0),
		Path:       cfg.String("session.path", ""),
		Connection: cfg.String("session.connection", ""),
		Password:   cfg.String("session.password", ""),
		AuthKey:    cfg.String("session.key", ""),
		EncryptKey: cfg.String("session.encryption_key", ""),
	})
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := trailhead.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         trailhead.EnvVarOrString(hostEnvVar, "") + port,
		IdleTimeout:  trailhead.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  trailhead.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: trailhead.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
