package session

import (
	gorilla "github.com/gorilla/sessions"
)

// A Session wraps a loaded payload with typed accessors.
//
// Changes are written when the Lifecycle saves the payload.
type Session struct {
	s *gorilla.Session
}

// Wrap constructs a Session over g.
// Wrapping a nil payload yields a Session whose accessors do nothing.
func Wrap(g *gorilla.Session) Session { return Session{s: g} }

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any {
	if s.s == nil {
		return nil
	}

	return s.s.Values[key]
}

// Set stores a value according to the key passed in on the session.
func (s Session) Set(key string, val any) {
	if s.s == nil {
		return
	}

	s.s.Values[key] = val
}

// Delete removes the key from the session.
func (s Session) Delete(key string) {
	if s.s == nil {
		return
	}

	delete(s.s.Values, key)
}

// Expire marks the session for removal when saved.
func (s Session) Expire() {
	if s.s == nil {
		return
	}

	s.s.Options.MaxAge = -1
}

// AddFlash stores the Flash in the session.
func (s Session) AddFlash(f Flash) {
	if s.s == nil {
		return
	}

	s.s.AddFlash(f)
}

// Flashes retrieves and removes the []Flash stored in the session.
func (s Session) Flashes() []Flash {
	if s.s == nil {
		return nil
	}

	fs := make([]Flash, 0)
	for _, raw := range s.s.Flashes() {
		if f, ok := raw.(Flash); ok {
			fs = append(fs, f)
		}
	}

	return fs
}
