package template_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead/component"
	"github.com/xy-planning-network/trailhead/http/template"
	tt "github.com/xy-planning-network/trailhead/http/template/templatetest"
)

type stubLocator map[string]string

func (l stubLocator) Resolve(name string) (string, error) {
	if fp, ok := l[name]; ok {
		return fp, nil
	}

	return "", errors.New("missing")
}

func TestRendererRender(t *testing.T) {
	// Arrange
	p := tt.NewParser(tt.NewView("views/home/index.tmpl", `<p>{{ . }}</p>`))
	r := template.NewRenderer(p, stubLocator{"home.index": "views/home/index.tmpl"})

	// Act
	out, err := r.Render("home.index", "hi")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "<p>hi</p>", out)
}

func TestRendererRenderNotFound(t *testing.T) {
	// Arrange
	r := template.NewRenderer(tt.NewParser(), stubLocator{})

	// Act
	out, err := r.Render("home.index", nil)

	// Assert
	require.True(t, template.IsNotFound(err))
	require.Empty(t, out)
}

func TestRendererRenderExecuteError(t *testing.T) {
	// Arrange
	p := tt.NewParser(tt.NewView("views/broken.tmpl", `{{ template "missing" }}`))
	r := template.NewRenderer(p, stubLocator{"broken": "views/broken.tmpl"})

	// Act
	_, err := r.Render("broken", nil)

	// Assert
	require.NotNil(t, err)
	require.False(t, template.IsNotFound(err))
}

func TestRendererEmbeddedViews(t *testing.T) {
	// Arrange
	p := tt.NewParser()
	res := component.NewResolver(component.FSSource{FS: p.FS()})
	res.AddRoot("", "views")
	r := template.NewRenderer(p, res)

	// Act
	welcome, welcomeErr := r.Render("trailhead::welcome", "Trailhead")
	notFound, notFoundErr := r.Render("error/404", nil)

	// Assert
	require.Nil(t, welcomeErr)
	require.Contains(t, welcome, "<h1>Trailhead</h1>")
	require.Nil(t, notFoundErr)
	require.Contains(t, notFound, "<h1>404</h1>")
}

func TestParserUserViewsShadowEmbedded(t *testing.T) {
	// Arrange
	p := tt.NewParser(tt.NewView("views/error/404.tmpl", `custom`))
	r := template.NewRenderer(p, stubLocator{"error/404": "views/error/404.tmpl"})

	// Act
	out, err := r.Render("error/404", nil)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "custom", out)
}
