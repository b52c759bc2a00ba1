// Package templatetest builds in-memory views for tests that render templates,
// sparing them testdata/ directories.
package templatetest

import (
	"io/fs"
	"testing/fstest"

	"github.com/xy-planning-network/trailhead/http/template"
)

// A View is a template file held in memory.
type View struct {
	Path string
	Body string
}

// NewView constructs a View at fp.
func NewView(fp, body string) View { return View{Path: fp, Body: body} }

// NewFS holds views in an fs.FS.
func NewFS(views ...View) fstest.MapFS {
	fsys := make(fstest.MapFS, len(views))
	for _, v := range views {
		fsys[v.Path] = &fstest.MapFile{Data: []byte(v.Body), Mode: 0o444}
	}

	return fsys
}

// NewParser constructs a *template.Parser reading views ahead of the embedded ones.
func NewParser(views ...View) *template.Parser {
	return template.NewParser([]fs.FS{NewFS(views...)})
}
