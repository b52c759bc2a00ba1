package session

import (
	"fmt"
	"net/http"

	gorilla "github.com/gorilla/sessions"
)

//go:generate mockgen -destination=sessiontest/mock_lifecycle.go -package=sessiontest . Lifecycle

// The Lifecycle of a session within one execution context.
// Save is the single point the payload is written.
type Lifecycle interface {
	Start(driver string) error
	Load(r *http.Request) error
	Payload() *gorilla.Session
	Save(w http.ResponseWriter, r *http.Request) error
}

// A Manager drives the Lifecycle of one execution context's session.
// A Manager is not safe for concurrent use.
type Manager struct {
	payload *gorilla.Session
	svc     *Service
	store   gorilla.Store
}

var _ Lifecycle = (*Manager)(nil)

// NewManager constructs a *Manager drawing stores from svc.
func NewManager(svc *Service) *Manager { return &Manager{svc: svc} }

// Start selects the store backing driver.
func (m *Manager) Start(driver string) error {
	if m.svc == nil {
		return fmt.Errorf("%w: no service", ErrNotValid)
	}

	st, err := m.svc.Store(driver)
	if err != nil {
		return err
	}
	m.store = st

	return nil
}

// Load reads the session r carries, or begins a new one.
//
// A payload that cannot be decoded, as after rotating keys, is replaced with a new one.
func (m *Manager) Load(r *http.Request) error {
	if m.store == nil {
		return ErrNotStarted
	}

	s, err := m.store.Get(r, m.svc.Name())
	if s == nil {
		return fmt.Errorf("cannot load session: %w", err)
	}
	m.payload = s

	return nil
}

// Payload returns the loaded session, nil before Load.
func (m *Manager) Payload() *gorilla.Session { return m.payload }

// Save writes the payload back to its store.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request) error {
	if m.store == nil || m.payload == nil {
		return ErrNotStarted
	}

	return m.store.Save(r, w, m.payload)
}
