package trailhead

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// An Environment is a deployment a trailhead app runs in.
// It decides defaults such as log colors and whether cookies require HTTPS.
type Environment string

const (
	Development Environment = "DEVELOPMENT"
	Production  Environment = "PRODUCTION"
	Staging     Environment = "STAGING"
	Testing     Environment = "TESTING"
)

func (e Environment) String() string { return string(e) }

// Valid returns ErrNotValid unless e is one of the declared Environments.
func (e Environment) Valid() error {
	switch e {
	case Development, Production, Staging, Testing:
		return nil
	default:
		return fmt.Errorf("%w: environment %q", ErrNotValid, string(e))
	}
}

// SecureCookies reports whether session cookies must only travel over HTTPS.
func (e Environment) SecureCookies() bool { return e != Development && e != Testing }

func (e Environment) IsDevelopment() bool { return e == Development }
func (e Environment) IsProduction() bool  { return e == Production }
func (e Environment) IsTesting() bool     { return e == Testing }

// envVarOr reads key and converts it with parse,
// returning def when key is unset or parse fails.
func envVarOr[T any](key string, def T, parse func(string) (T, error)) T {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}

	out, err := parse(val)
	if err != nil {
		return def
	}

	return out
}

// EnvVarOrDuration reads key as a [time.Duration].
func EnvVarOrDuration(key string, def time.Duration) time.Duration {
	return envVarOr(key, def, time.ParseDuration)
}

// EnvVarOrEnv reads key, case-insensitively, as an Environment.
func EnvVarOrEnv(key string, def Environment) Environment {
	return envVarOr(key, def, func(val string) (Environment, error) {
		e := Environment(strings.ToUpper(val))
		return e, e.Valid()
	})
}

// EnvVarOrString reads key, falling back to def when it is empty.
func EnvVarOrString(key, def string) string {
	return envVarOr(key, def, func(val string) (string, error) { return val, nil })
}

// EnvVarOrURL reads key as an absolute URL.
// The fallback, parsed from def, always has the root path;
// it is nil if def does not parse.
func EnvVarOrURL(key, def string) *url.URL {
	fallback, err := url.ParseRequestURI(def)
	if err != nil {
		return nil
	}
	fallback.Path = "/"

	return envVarOr(key, fallback, url.ParseRequestURI)
}
