// Package config exposes the application configuration an execution context reads from.
//
// Values come from three layers, checked in order:
//   - environment variables named after the dotted key, e.g. error.detail => ERROR_DETAIL
//   - YAML files, one per top-level group, e.g. config/error.yaml holds error.*
//   - [Defaults]
//
// A Store is immutable once constructed and safe for concurrent use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults holds the framework's configuration defaults, grouped as the YAML files are.
var Defaults = map[string]any{
	"application": map[string]any{
		"title":      "trailhead",
		"url":        "http://localhost:3000",
		"timezone":   "UTC",
		"encoding":   "UTF-8",
		"bundles":    []any{},
		"components": map[string]any{},
	},
	"error": map[string]any{
		"log":       true,
		"detail":    false,
		"ignore":    []any{"notice", "user_notice", "deprecated", "user_deprecated"},
		"reporting": -1,
	},
	"session": map[string]any{
		"driver":         "",
		"cookie":         "",
		"lifetime":       60,
		"path":           "storage/sessions",
		"connection":     "",
		"password":       "",
		"key":            "",
		"encryption_key": "",
	},
}

// A Store answers configuration lookups by dotted key.
type Store struct {
	values map[string]any
	env    func(string) (string, bool)
}

// New constructs a *Store from values layered over Defaults.
// values is keyed by group, each group holding a nested map.
func New(values map[string]any) *Store {
	return &Store{
		values: merge(copyMap(Defaults), values),
		env:    os.LookupEnv,
	}
}

// Load reads every *.yaml and *.yml file in dir of fsys into a *Store.
// The file name without its extension names the group its contents belong to.
func Load(fsys fs.FS, dir string) (*Store, error) {
	values := make(map[string]any)
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(fsys, path.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
		}

		for _, fp := range matches {
			b, err := fs.ReadFile(fsys, fp)
			if err != nil {
				return nil, fmt.Errorf("%w: reading %s: %s", ErrBadConfig, fp, err)
			}

			group := make(map[string]any)
			if err := yaml.Unmarshal(b, &group); err != nil {
				return nil, fmt.Errorf("%w: decoding %s: %s", ErrBadConfig, fp, err)
			}

			name := strings.TrimSuffix(path.Base(fp), path.Ext(fp))
			values[name] = group
		}
	}

	return New(values), nil
}

// LoadEnv loads environment variables from the files named,
// ".env" when none are named.
// Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return fmt.Errorf("%w: loading %s: %s", ErrBadConfig, f, err)
		}
	}

	return nil
}

// EnvKey names the environment variable overriding key.
func EnvKey(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// WithLookup returns a copy of the *Store consulting fn, instead of the process environment,
// for overriding values. A nil fn disables overrides.
func (s *Store) WithLookup(fn func(string) (string, bool)) *Store {
	return &Store{values: s.values, env: fn}
}

// Get retrieves the value for the dotted key, or def if none is set.
func (s *Store) Get(key string, def any) any {
	if s.env != nil {
		if val, ok := s.env(EnvKey(key)); ok {
			return val
		}
	}

	var cur any = s.values
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}

		cur, ok = m[part]
		if !ok {
			return def
		}
	}

	if cur == nil {
		return def
	}

	return cur
}

// Has reports whether key resolves to a value.
func (s *Store) Has(key string) bool {
	return s.Get(key, nil) != nil
}

// String retrieves key as a string.
func (s *Store) String(key, def string) string {
	switch val := s.Get(key, nil).(type) {
	case nil:
		return def
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// Bool retrieves key as a bool.
// Strings are parsed with [strconv.ParseBool]; numbers are true when non-zero.
func (s *Store) Bool(key string, def bool) bool {
	switch val := s.Get(key, nil).(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return def
		}
		return b
	case int:
		return val != 0
	default:
		return def
	}
}

// Int retrieves key as an int.
func (s *Store) Int(key string, def int) int {
	switch val := s.Get(key, nil).(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return def
		}
		return i
	default:
		return def
	}
}

// Strings retrieves key as a []string.
// A string value, as environment variables are, is split on commas.
func (s *Store) Strings(key string, def []string) []string {
	switch val := s.Get(key, nil).(type) {
	case []string:
		return append([]string{}, val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, v := range val {
			out = append(out, fmt.Sprint(v))
		}
		return out
	case string:
		out := make([]string, 0)
		for _, v := range strings.Split(val, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	default:
		return def
	}
}

// StringMap retrieves key as a map[string]string.
func (s *Store) StringMap(key string) map[string]string {
	out := make(map[string]string)
	switch val := s.Get(key, nil).(type) {
	case map[string]string:
		for k, v := range val {
			out[k] = v
		}
	case map[string]any:
		for k, v := range val {
			out[k] = fmt.Sprint(v)
		}
	}

	return out
}

// merge overlays src onto dst, descending into maps present in both.
func merge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		sm, srcIsMap := v.(map[string]any)
		dm, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[k] = merge(dm, sm)
			continue
		}

		if srcIsMap {
			dst[k] = copyMap(sm)
			continue
		}

		dst[k] = v
	}

	return dst
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = copyMap(nested)
		}
		out[k] = v
	}

	return out
}
