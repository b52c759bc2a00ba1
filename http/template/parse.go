package template

import (
	"fmt"
	html "html/template"
	"io/fs"
	"os"
	"path"
)

// Parser parses HTML templates, with the functions added to it,
// from a stack of directories ending with the package-level embedded views.
//
// A *Parser is safe for concurrent use; AddFn returns a new *Parser.
type Parser struct {
	fs  *mergeFS
	fns html.FuncMap
}

// NewParser constructs a *Parser searching dirs in order.
// Without dirs, the current working directory is searched.
func NewParser(dirs []fs.FS) *Parser {
	if len(dirs) == 0 {
		dirs = []fs.FS{os.DirFS(".")}
	}

	return &Parser{fs: newMergeFS(dirs...), fns: make(html.FuncMap)}
}

// AddFn returns a copy of the *Parser with the named function in its function map.
func (p *Parser) AddFn(name string, fn any) *Parser {
	fns := make(html.FuncMap, len(p.fns)+1)
	for k, v := range p.fns {
		fns[k] = v
	}
	fns[name] = fn

	return &Parser{fs: p.fs, fns: fns}
}

// FS exposes the merged directories the *Parser reads from.
func (p *Parser) FS() fs.FS { return p.fs }

// Parse parses the non-empty file paths fps, naming the template after the first.
func (p *Parser) Parse(fps ...string) (*html.Template, error) {
	files := make([]string, 0, len(fps))
	for _, fp := range fps {
		if fp != "" {
			files = append(files, fp)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w", ErrNoFiles)
	}

	return html.New(path.Base(files[0])).Funcs(p.fns).ParseFS(p.fs, files...)
}
