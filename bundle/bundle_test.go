package bundle_test

import (
	"errors"
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead/bundle"
	"github.com/xy-planning-network/trailhead/component"
	"github.com/xy-planning-network/trailhead/config"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/router"
	"github.com/xy-planning-network/trailhead/logger"
)

type host struct{ res *component.Resolver }

func (h host) Config() *config.Store         { return config.New(nil) }
func (h host) Logger() logger.Logger         { return logger.New() }
func (h host) Resolver() *component.Resolver { return h.res }

func ok(*req.Context) (any, error) { return "ok", nil }

func setup(t *testing.T, bundles ...bundle.Bundle) (*bundle.Registry, *component.Resolver, *router.Router) {
	t.Helper()

	res := component.NewResolver(component.FSSource{FS: fstest.MapFS{
		"app/views/home.tmpl":            {Data: []byte("home")},
		"bundles/admin/views/users.tmpl": {Data: []byte("users")},
	}})
	rt := router.New()

	reg, err := bundle.NewRegistry(res, rt, host{res}, bundles...)
	require.Nil(t, err)

	return reg, res, rt
}

func TestRegistryStart(t *testing.T) {
	// Arrange
	boots := 0
	admin := bundle.Bundle{
		Name:     "admin",
		Location: "bundles/admin/views",
		Boot:     func(bundle.Host) error { boots++; return nil },
		Routes:   func(r *router.Router) { r.Get("/users", ok) },
	}
	reg, res, rt := setup(t, admin)

	// Act
	first := reg.Start("admin")
	second := reg.Start("admin")

	// Assert
	require.Nil(t, first)
	require.Nil(t, second)
	require.Equal(t, 1, boots)
	require.True(t, reg.Started("admin"))
	require.Equal(t, []component.Root{{Prefix: "admin::", Base: "bundles/admin/views"}}, res.Roots())

	_, _, matched := rt.Match(http.MethodGet, "/admin/users")
	require.True(t, matched)

	loc, err := res.Resolve("admin::users")
	require.Nil(t, err)
	require.Equal(t, "bundles/admin/views/users.tmpl", loc)
}

func TestRegistryStartDefault(t *testing.T) {
	// Arrange
	app := bundle.Bundle{
		Name:     bundle.DefaultBundle,
		Location: "app/views",
		Routes:   func(r *router.Router) { r.Get("/", ok) },
	}
	reg, res, rt := setup(t, app)

	// Act
	err := reg.Start(bundle.DefaultBundle)

	// Assert
	require.Nil(t, err)
	require.Equal(t, []component.Root{{Prefix: "", Base: "app/views"}}, res.Roots())

	_, _, matched := rt.Match(http.MethodGet, "/")
	require.True(t, matched)

	loc, err := res.Resolve("home")
	require.Nil(t, err)
	require.Equal(t, "app/views/home.tmpl", loc)
}

func TestRegistryStartUnknown(t *testing.T) {
	// Arrange
	reg, _, _ := setup(t)

	// Act
	err := reg.Start("missing")

	// Assert
	require.ErrorIs(t, err, bundle.ErrUnknownBundle)
	require.False(t, reg.Started("missing"))
}

func TestRegistryStartBootError(t *testing.T) {
	// Arrange
	boom := errors.New("boom")
	reg, _, _ := setup(t, bundle.Bundle{Name: "admin", Boot: func(bundle.Host) error { return boom }})

	// Act
	err := reg.Start("admin")

	// Assert
	require.ErrorIs(t, err, boom)
	require.True(t, reg.Started("admin"))
}

func TestRegistryActivatesThroughResolver(t *testing.T) {
	// Arrange
	admin := bundle.Bundle{Name: "admin", Location: "bundles/admin/views"}
	reg, res, _ := setup(t, admin)
	res.Use(component.BundleStrategy{Bundles: reg})

	// Act
	loc, err := res.Resolve("admin::users")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "bundles/admin/views/users.tmpl", loc)
	require.True(t, reg.Started("admin"))
}

func TestRegistryRoutable(t *testing.T) {
	// Arrange
	reg, _, _ := setup(t,
		bundle.Bundle{Name: bundle.DefaultBundle},
		bundle.Bundle{Name: "admin", Routes: func(*router.Router) {}},
		bundle.Bundle{Name: "mailer"},
	)

	// Assert
	require.True(t, reg.Routable(bundle.DefaultBundle))
	require.True(t, reg.Routable("admin"))
	require.False(t, reg.Routable("mailer"))
	require.False(t, reg.Routable("missing"))
	require.Equal(t, []string{bundle.DefaultBundle, "admin", "mailer"}, reg.Names())
}

func TestRegistryHandling(t *testing.T) {
	// Arrange
	reg, _, rt := setup(t,
		bundle.Bundle{Name: bundle.DefaultBundle},
		bundle.Bundle{Name: "admin", Handles: "/backstage/", Routes: func(r *router.Router) { r.Get("", ok) }},
	)

	// Act
	name, found := reg.Handling("backstage")
	_, byName := reg.Handling("admin")
	_, empty := reg.Handling("")
	require.Nil(t, reg.Start("admin"))

	// Assert
	require.True(t, found)
	require.Equal(t, "admin", name)
	require.False(t, byName)
	require.False(t, empty)

	_, _, matched := rt.Match(http.MethodGet, "/backstage")
	require.True(t, matched)
}

func TestNewRegistryInvalid(t *testing.T) {
	tcs := []struct {
		name    string
		bundles []bundle.Bundle
	}{
		{"Empty-Name", []bundle.Bundle{{}}},
		{"Namespaced", []bundle.Bundle{{Name: "a::b"}}},
		{"Duplicate", []bundle.Bundle{{Name: "a"}, {Name: "a"}}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			reg, err := bundle.NewRegistry(nil, nil, nil, tc.bundles...)

			// Assert
			require.ErrorIs(t, err, bundle.ErrNotValid)
			require.Nil(t, reg)
		})
	}
}
