package template

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"sync"
)

// A Locator finds the file a view name refers to.
type Locator interface {
	Resolve(name string) (string, error)
}

// A Renderer renders views located by name.
type Renderer struct {
	locator Locator
	parser  *Parser

	// Pool of *bytes.Buffer to prerender views into
	pool *sync.Pool
}

// NewRenderer constructs a *Renderer locating views with l and parsing them with p.
func NewRenderer(p *Parser, l Locator) *Renderer {
	return &Renderer{
		locator: l,
		parser:  p,
		pool:    &sync.Pool{New: func() any { return new(bytes.Buffer) }},
	}
}

// Render locates the view name, then parses and executes it with data.
func (r *Renderer) Render(name string, data any) (string, error) {
	if r.locator == nil || r.parser == nil {
		return "", fmt.Errorf("%w: renderer has no locator or parser", ErrNotFound)
	}

	fp, err := r.locator.Resolve(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %s", ErrNotFound, name, err)
	}

	tmpl, err := r.parser.Parse(fp)
	if err != nil {
		return "", fmt.Errorf("cannot parse %s: %w", fp, err)
	}

	b := r.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer r.pool.Put(b)

	if err := tmpl.ExecuteTemplate(b, path.Base(fp), data); err != nil {
		return "", fmt.Errorf("cannot execute %s: %w", fp, err)
	}

	return b.String(), nil
}

// IsNotFound reports whether err means a view could not be located.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
