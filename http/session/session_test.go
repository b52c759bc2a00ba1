package session_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	gorilla "github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/session"
	"github.com/xy-planning-network/trailhead/http/session/sessiontest"
)

var key = strings.Repeat("ab", 32)

func newService(t *testing.T, cfg session.Config) *session.Service {
	t.Helper()

	if cfg.Env == "" {
		cfg.Env = trailhead.Testing
	}
	if cfg.Name == "" {
		cfg.Name = "trailhead_session"
	}
	if cfg.AuthKey == "" {
		cfg.AuthKey = key
	}
	if cfg.EncryptKey == "" {
		cfg.EncryptKey = key
	}

	svc, err := session.NewService(cfg)
	require.Nil(t, err)

	return svc
}

func TestNewService(t *testing.T) {
	tcs := []struct {
		name string
		cfg  session.Config
	}{
		{"Bad-Env", session.Config{Env: "nope", Name: "s", AuthKey: key, EncryptKey: key}},
		{"No-Name", session.Config{Env: trailhead.Testing, AuthKey: key, EncryptKey: key}},
		{"Bad-Auth-Key", session.Config{Env: trailhead.Testing, Name: "s", AuthKey: "ðŸ˜…", EncryptKey: key}},
		{"Bad-Encrypt-Key", session.Config{Env: trailhead.Testing, Name: "s", AuthKey: key, EncryptKey: "ðŸ˜…"}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			svc, err := session.NewService(tc.cfg)

			// Assert
			require.ErrorIs(t, err, trailhead.ErrBadConfig)
			require.Nil(t, svc)
		})
	}

	// Act
	svc := newService(t, session.Config{Lifetime: 2})

	// Assert
	require.Equal(t, 120, svc.MaxAge())
	require.Equal(t, "trailhead_session", svc.Name())
}

func TestServiceStore(t *testing.T) {
	// Arrange
	svc := newService(t, session.Config{})

	// Act
	first, err := svc.Store(session.DriverCookie)
	require.Nil(t, err)
	second, err := svc.Store(session.DriverCookie)
	require.Nil(t, err)
	_, unknownErr := svc.Store("memcached")

	// Assert
	require.Same(t, first, second)
	require.ErrorIs(t, unknownErr, session.ErrUnknownDriver)
}

func roundTrip(t *testing.T, svc *session.Service, driver string) {
	t.Helper()

	// Arrange
	first := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	m := session.NewManager(svc)
	require.Nil(t, m.Start(driver))
	require.Nil(t, m.Load(first))
	require.True(t, m.Payload().IsNew)

	// Act
	session.Wrap(m.Payload()).Set("greeting", "hello")
	session.Wrap(m.Payload()).AddFlash(session.Flash{Class: session.FlashInfo, Msg: "saved"})
	require.Nil(t, m.Save(w, first))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookies[0])

	next := session.NewManager(svc)
	require.Nil(t, next.Start(driver))
	require.Nil(t, next.Load(second))

	// Assert
	loaded := session.Wrap(next.Payload())
	require.False(t, next.Payload().IsNew)
	require.Equal(t, "hello", loaded.Get("greeting"))
	require.Equal(t, []session.Flash{{Class: session.FlashInfo, Msg: "saved"}}, loaded.Flashes())
	require.Empty(t, loaded.Flashes())
}

func TestManagerCookieDriver(t *testing.T) {
	roundTrip(t, newService(t, session.Config{}), session.DriverCookie)
}

func TestManagerFileDriver(t *testing.T) {
	roundTrip(t, newService(t, session.Config{Path: t.TempDir()}), session.DriverFile)
}

func TestManagerDatabaseDriver(t *testing.T) {
	url := os.Getenv("DATABASE_TEST_URL")
	if url == "" {
		t.Skip("DATABASE_TEST_URL not set")
	}

	roundTrip(t, newService(t, session.Config{Connection: url}), session.DriverDatabase)
}

func TestManagerNotStarted(t *testing.T) {
	// Arrange
	m := session.NewManager(newService(t, session.Config{}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	loadErr := m.Load(r)
	saveErr := m.Save(httptest.NewRecorder(), r)

	// Assert
	require.ErrorIs(t, loadErr, session.ErrNotStarted)
	require.ErrorIs(t, saveErr, session.ErrNotStarted)
	require.Nil(t, m.Payload())
}

func TestManagerStartUnknown(t *testing.T) {
	// Arrange
	m := session.NewManager(newService(t, session.Config{}))

	// Act
	err := m.Start("memcached")

	// Assert
	require.ErrorIs(t, err, session.ErrUnknownDriver)
}

func TestSessionWrap(t *testing.T) {
	// Arrange
	nilSess := session.Wrap(nil)
	g := gorilla.NewSession(nil, "s")
	g.Options = &gorilla.Options{MaxAge: 60}
	s := session.Wrap(g)

	// Act
	s.Set("a", 1)
	s.Set("b", 2)
	s.Delete("b")
	s.Expire()

	// Assert
	require.NotPanics(t, func() {
		nilSess.Set("a", 1)
		nilSess.Delete("a")
		nilSess.Expire()
		nilSess.AddFlash(session.Flash{})
	})
	require.Nil(t, nilSess.Get("a"))
	require.Nil(t, nilSess.Flashes())
	require.Equal(t, 1, s.Get("a"))
	require.Nil(t, s.Get("b"))
	require.Equal(t, -1, g.Options.MaxAge)
}

func TestCookieName(t *testing.T) {
	tcs := []struct {
		title    string
		expected string
	}{
		{"My App", "my_app_session"},
		{"", "trailhead_session"},
		{"  Trail--Head!! ", "trail_head_session"},
		{"Café", "caf_session"},
		{"!!!", "trailhead_session"},
	}

	for _, tc := range tcs {
		t.Run(tc.title, func(t *testing.T) {
			require.Equal(t, tc.expected, session.CookieName(tc.title))
		})
	}
}

func TestMockLifecycle(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	m := sessiontest.NewMockLifecycle(ctrl)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	payload := gorilla.NewSession(nil, "s")

	gomock.InOrder(
		m.EXPECT().Start(session.DriverCookie).Return(nil),
		m.EXPECT().Load(r).Return(nil),
		m.EXPECT().Payload().Return(payload),
	)

	var lc session.Lifecycle = m

	// Act + Assert
	require.Nil(t, lc.Start(session.DriverCookie))
	require.Nil(t, lc.Load(r))
	require.Same(t, payload, lc.Payload())
}
