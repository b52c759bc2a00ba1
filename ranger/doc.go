/*
Package ranger initializes and manages a trailhead app with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type, constructed with [New].
A [Ranger] is shared by every execution context and read-only once [New] returns.

Each execution context, whether an HTTP request served by [*Ranger.Guide]
or a single CGI invocation driven by [*Ranger.Run], gets its own [Bootstrap]:

 1. the fault unifier is installed, turning errors and panics into an error page
 2. the component resolver is built from application.components
 3. the timezone is read from application.timezone, falling back to UTC
 4. the session is started and loaded, if session.driver is set
 5. the request context is built
 6. bundles start: those in application.bundles, "application",
    then the bundle handling the first path segment
 7. the dispatcher runs the matched route's handler, or renders a 404
 8. the session is saved
 9. the response is sent

[*Ranger.Run] returns 1 if a fault ended the execution context, 0 otherwise.

[*Ranger.Guide] begins a trailhead app's web server.
By default, [*Ranger.Guide] listens on [DefaultPort] (:3000).
Stop that web server with [*Ranger.Shutdown],
cancel the context.Context passed to [WithContext],
or send a signal [*Ranger.Guide] listens for.

# Configuration

A developer configures a trailhead app through YAML files in CONFIG_DIR
and environment variables.
Every config key can be overridden by an environment variable named after it:
session.key is read from SESSION_KEY, error.detail from ERROR_DETAIL.

Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from;
cf. [config.LoadEnv].

Here are the environment variables read when constructing a [Ranger].
  - BASE_URL: the base URL the application runs on; default: application.url
  - CONFIG_DIR: the directory holding YAML config files; default: config
  - ENVIRONMENT: the environment the application is running in; cf. [trailhead.Environment]
  - HOST: the host the application is running on; default: all interfaces
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - PORT: the port the application should listen on; default: :3000
  - SENTRY_DSN: when set, errors are also sent to Sentry
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s

# Metrics

The web server counts execution contexts by outcome and serves them at [MetricsPath].
*/
package ranger
