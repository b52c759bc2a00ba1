package ranger

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/bundle"
	"github.com/xy-planning-network/trailhead/config"
	"github.com/xy-planning-network/trailhead/http/session"
	"github.com/xy-planning-network/trailhead/logger"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithBundles is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithViews is an example of the second.
// The parser it configures needs the environment and the config,
// so an unexported field on the passed in *Ranger
// is updated only when the closure it returns is called.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithBundles registers the bundles every execution context can start.
func WithBundles(bundles ...bundle.Bundle) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		seen := make(map[string]bool, len(rng.bundles)+len(bundles))
		for _, b := range append(append([]bundle.Bundle{}, rng.bundles...), bundles...) {
			if seen[b.Name] {
				return nil, fmt.Errorf("%w: bundle %q registered twice", ErrNotValid, b.Name)
			}
			seen[b.Name] = true
		}

		rng.bundles = append(rng.bundles, bundles...)
		rng.debug(fmt.Sprintf("using %d bundles", len(rng.bundles)))

		return nil, nil
	}
}

// WithConfig exposes the provided *config.Store to the trailhead app
// in place of the one read from CONFIG_DIR.
func WithConfig(cfg *config.Store) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if cfg == nil {
			return nil, fmt.Errorf("%w: nil config", ErrNotValid)
		}

		rng.cfg = cfg
		rng.debug("using provided config")

		return nil, nil
	}
}

// WithContext exposes the provided context.Context to the trailhead app.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.ctx = ctx
		rng.debug(fmt.Sprintf("using context %T", ctx))

		return nil, nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the ENVIRONMENT environment variable a valid Environment.
//
// If both fail, the default Environment is set to Development.
func WithEnv(envVar string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		e := trailhead.Environment(envVar)
		if err := e.Valid(); err != nil {
			e = trailhead.EnvVarOrEnv(environmentEnvVar, trailhead.Development)
		}

		rng.env = e
		rng.debug(fmt.Sprintf("using env %s", e))

		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the trailhead app.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.l = l
		rng.debug(fmt.Sprintf("using logger %T", l))

		return nil, nil
	}
}

// WithMetrics exposes the provided *Metrics to the trailhead app.
func WithMetrics(m *Metrics) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.metrics = m
		return nil, nil
	}
}

// WithServer exposes the *http.Server to the trailhead app.
// Its Handler is replaced with the *Ranger.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.srv = s
		rng.debug(fmt.Sprintf("using server %T", s))

		return nil, nil
	}
}

// WithSessions constructs a followup option that, when called,
// sets the function each execution context gets its session.Lifecycle from.
func WithSessions(fn func() session.Lifecycle) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			rng.sessions = fn
			rng.debug("using provided session lifecycle")

			return nil
		}, nil
	}
}

// WithViews constructs a followup option that, when called,
// configures the parser to search dirs, in order, for views
// before the views embedded in trailhead.
func WithViews(dirs ...fs.FS) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			rng.views = dirs
			rng.p = defaultParser(rng.env, rng.url, rng.cfg.String("application.title", ""), dirs)
			rng.debug(fmt.Sprintf("using %d view directories", len(dirs)))

			return nil
		}, nil
	}
}
