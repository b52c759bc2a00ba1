package router

import (
	"fmt"

	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
)

// State is where a Dispatcher is in handling its request.
type State int

const (
	NotStarted State = iota
	Resolving
	Matched
	Unmatched
	Responded
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Resolving:
		return "resolving"
	case Matched:
		return "matched"
	case Unmatched:
		return "unmatched"
	case Responded:
		return "responded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pages constructs the responses a Dispatcher answers with.
type Pages interface {
	Error(code int, data any) (*resp.Response, error)
	Make(content any, opts ...resp.Fn) *resp.Response
}

// A Dispatcher finds and invokes the Handler for one request.
type Dispatcher struct {
	matched bool
	pages   Pages
	state   State
	table   Table
}

// NewDispatcher constructs a *Dispatcher matching against t.
// Requests matching nothing get p's 404 page.
func NewDispatcher(t Table, p Pages) *Dispatcher {
	return &Dispatcher{pages: p, table: t}
}

// State returns the *Dispatcher's current State.
func (d *Dispatcher) State() State { return d.state }

// Matched reports whether the request matched a route.
func (d *Dispatcher) Matched() bool { return d.matched }

// Dispatch resolves the Handler for c and invokes it.
// The variables matched out of the path are set on c.Params.
//
// Errors the Handler returns are passed back to the caller as-is.
func (d *Dispatcher) Dispatch(c *req.Context) (*resp.Response, error) {
	if d.state != NotStarted {
		return nil, fmt.Errorf("%w: already dispatched", ErrNotValid)
	}
	d.state = Resolving

	h, params, ok := d.table.Match(c.Method, c.Path)
	if !ok {
		d.state = Unmatched
		r, err := d.pages.Error(404, nil)
		if err != nil {
			return nil, err
		}
		d.state = Responded

		return r, nil
	}

	d.state = Matched
	d.matched = true
	if c.Params == nil {
		c.Params = make(map[string]string, len(params))
	}
	for k, v := range params {
		c.Params[k] = v
	}

	out, err := h(c)
	if err != nil {
		return nil, err
	}
	d.state = Responded

	if r, ok := out.(*resp.Response); ok {
		if r == nil {
			return d.pages.Make(nil), nil
		}

		return r, nil
	}

	return d.pages.Make(out), nil
}
