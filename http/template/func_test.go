package template_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/template"
	tt "github.com/xy-planning-network/trailhead/http/template/templatetest"
)

func execute(t *testing.T, p *template.Parser, fp string) (string, error) {
	t.Helper()

	tmpl, err := p.Parse(fp)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	err = tmpl.Execute(&b, nil)

	return b.String(), err
}

func TestParserAddFn(t *testing.T) {
	// Arrange
	base := tt.NewParser(tt.NewView("views/fns.tmpl", `{{ env }}|{{ title }}|{{ rootURL }}`))
	u, err := url.ParseRequestURI("https://example.com/")
	require.Nil(t, err)

	// Act
	withFns := base.AddFn(template.Env(trailhead.Testing)).
		AddFn(template.Title("Trailhead")).
		AddFn(template.RootURL(u))
	out, withErr := execute(t, withFns, "views/fns.tmpl")
	_, baseErr := execute(t, base, "views/fns.tmpl")

	// Assert
	require.Nil(t, withErr)
	require.Equal(t, "TESTING|Trailhead|https://example.com/", out)
	require.NotNil(t, baseErr)
}

func TestParserAddFnReplaces(t *testing.T) {
	// Arrange
	p := tt.NewParser(tt.NewView("views/title.tmpl", `{{ title }}`))

	// Act
	out, err := execute(t, p.AddFn(template.Title("first")).AddFn(template.Title("second")), "views/title.tmpl")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "second", out)
}

func TestNonce(t *testing.T) {
	// Act
	name, fn := template.Nonce()

	// Assert
	require.Equal(t, "nonce", name)
	require.NotEqual(t, fn(), fn())
}

func TestRootURL(t *testing.T) {
	for _, tc := range []struct {
		name     string
		u        *url.URL
		expected string
	}{
		{"nil", nil, ""},
		{"zero value", new(url.URL), ""},
		{"host", &url.URL{Scheme: "https", Host: "example.com"}, "https://example.com"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			name, fn := template.RootURL(tc.u)

			// Assert
			require.Equal(t, "rootURL", name)
			require.Equal(t, tc.expected, fn())
		})
	}
}
