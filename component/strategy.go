package component

import (
	"errors"
	"strings"
)

// A Strategy is one step in a *Resolver's chain.
// Find returns ErrComponentNotFound when it cannot locate name,
// letting the next Strategy try; any other error stops the chain.
type Strategy interface {
	Find(r *Resolver, name string) (string, error)
}

// MapStrategy finds components explicitly mapped in the *Resolver's Map.
// It takes precedence over any convention.
type MapStrategy struct{}

func (MapStrategy) Find(r *Resolver, name string) (string, error) {
	if loc, ok := r.Lookup(name); ok {
		return loc, nil
	}

	return "", ErrComponentNotFound
}

// ConventionStrategy derives a path from the component's name for each registered root
// and returns the first existing in the *Resolver's Source.
type ConventionStrategy struct{}

func (ConventionStrategy) Find(r *Resolver, name string) (string, error) {
	if loc, ok := r.searchRoots(name); ok {
		return loc, nil
	}

	return "", ErrComponentNotFound
}

// An Activator starts bundles on demand.
type Activator interface {
	Known(name string) bool
	Started(name string) bool
	Start(name string) error
}

// BundleStrategy starts the not-yet-started bundle a name is namespaced under,
// e.g. "admin" for "admin::users.index", and searches the roots again.
type BundleStrategy struct {
	Bundles Activator
}

func (s BundleStrategy) Find(r *Resolver, name string) (string, error) {
	bundle, _, ok := strings.Cut(name, NamespaceSep)
	if !ok || s.Bundles == nil || !s.Bundles.Known(bundle) || s.Bundles.Started(bundle) {
		return "", ErrComponentNotFound
	}

	if err := s.Bundles.Start(bundle); err != nil {
		return "", err
	}

	return ConventionStrategy{}.Find(r, name)
}

func isNotFound(err error) bool { return errors.Is(err, ErrComponentNotFound) }
