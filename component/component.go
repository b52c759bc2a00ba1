// Package component resolves symbolic component names, like "admin::dashboard.index",
// to the location of the file implementing them.
//
// A [Resolver] tries an ordered chain of [Strategy] values:
// an exact lookup in its [Map], a convention-based search over registered [Root] entries,
// and, once a bundle registry is attached, activating the bundle a name belongs to before searching again.
package component

import (
	"fmt"
	"path"
	"strings"
)

const (
	// NamespaceSep divides a bundle's name from the component name, e.g. "admin::users.index".
	NamespaceSep = "::"

	DefaultSeparator = "."
	DefaultExt       = ".tmpl"
)

// A Map pairs fully-qualified component names with their locations.
type Map map[string]string

// DefaultMap holds the components the framework ships.
// Entries resolve against the framework's embedded files.
var DefaultMap = Map{
	"trailhead::welcome": "tmpl/welcome.tmpl",
}

// A Root is a base directory searched for components whose names begin with Prefix.
// The default bundle's Root has an empty Prefix.
type Root struct {
	Prefix string
	Base   string
}

// matches reports whether name falls under r.
func (r Root) matches(name string) bool {
	if r.Prefix == "" {
		return !strings.Contains(name, NamespaceSep)
	}

	return strings.HasPrefix(name, r.Prefix)
}

// A Resolver maps component names to locations for a single execution context.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	components Map
	ext        string
	lower      bool
	roots      []Root
	sep        string
	source     Source
	strategies []Strategy
}

// NewResolver constructs a *Resolver checking for components in src.
// By default, a *Resolver consults DefaultMap and then the registered roots.
func NewResolver(src Source, opts ...Option) *Resolver {
	r := &Resolver{
		components: make(Map),
		ext:        DefaultExt,
		sep:        DefaultSeparator,
		source:     src,
	}
	for name, loc := range DefaultMap {
		r.components[name] = loc
	}

	for _, opt := range opts {
		opt(r)
	}

	if len(r.strategies) == 0 {
		r.strategies = []Strategy{MapStrategy{}, ConventionStrategy{}}
	}

	return r
}

// An Option configures a *Resolver when constructing it.
type Option func(*Resolver)

// WithMap adds the entries of m to the *Resolver's Map,
// replacing any entry of the same name.
func WithMap(m map[string]string) Option {
	return func(r *Resolver) {
		for name, loc := range m {
			r.components[name] = loc
		}
	}
}

// WithExt sets the file extension appended to convention-derived paths.
func WithExt(ext string) Option {
	return func(r *Resolver) { r.ext = ext }
}

// WithLowercase lowercases names before deriving a path by convention.
func WithLowercase() Option {
	return func(r *Resolver) { r.lower = true }
}

// WithSeparator sets the namespace separator turned into path separators
// when deriving a path by convention.
func WithSeparator(sep string) Option {
	return func(r *Resolver) { r.sep = sep }
}

// WithStrategies replaces the default chain of strategies.
func WithStrategies(s ...Strategy) Option {
	return func(r *Resolver) { r.strategies = s }
}

// AddRoot registers a search root after those already registered.
func (r *Resolver) AddRoot(prefix, base string) {
	r.roots = append(r.roots, Root{Prefix: prefix, Base: base})
}

// Roots returns a copy of the registered search roots, in registration order.
func (r *Resolver) Roots() []Root {
	return append([]Root{}, r.roots...)
}

// Use appends strategies to the end of the chain.
func (r *Resolver) Use(s ...Strategy) {
	r.strategies = append(r.strategies, s...)
}

// Lookup returns the location explicitly mapped to name.
func (r *Resolver) Lookup(name string) (string, bool) {
	loc, ok := r.components[name]
	return loc, ok
}

// Resolve walks the strategy chain, returning the first location found for name.
// If none finds it, Resolve returns ErrComponentNotFound.
func (r *Resolver) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty component name", ErrNotValid)
	}

	for _, s := range r.strategies {
		loc, err := s.Find(r, name)
		if err == nil {
			return loc, nil
		}

		if !isNotFound(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: %s", ErrComponentNotFound, name)
}

// Load resolves name and loads it from the *Resolver's Source.
func (r *Resolver) Load(name string) error {
	loc, err := r.Resolve(name)
	if err != nil {
		return err
	}

	return r.source.Load(loc)
}

// Exists reports whether the *Resolver's Source holds fp.
func (r *Resolver) Exists(fp string) bool {
	return r.source != nil && r.source.Exists(fp)
}

// Conventional derives the location name has under root,
// reporting false if root does not cover name.
func (r *Resolver) Conventional(root Root, name string) (string, bool) {
	if !root.matches(name) {
		return "", false
	}

	rel := strings.TrimPrefix(name, root.Prefix)
	if r.lower {
		rel = strings.ToLower(rel)
	}
	if r.sep != "" && r.sep != "/" {
		rel = strings.ReplaceAll(rel, r.sep, "/")
	}

	if rel == "" {
		return "", false
	}

	return path.Join(root.Base, rel) + r.ext, true
}

// searchRoots probes each root registered when the search began, in order.
// Roots appended during the search are seen by the next resolution.
func (r *Resolver) searchRoots(name string) (string, bool) {
	n := len(r.roots)
	for i := 0; i < n; i++ {
		loc, ok := r.Conventional(r.roots[i], name)
		if !ok {
			continue
		}

		if r.Exists(loc) {
			return loc, true
		}
	}

	return "", false
}
