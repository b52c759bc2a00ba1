package resp

import (
	"fmt"
	"net/http"
	"path"
	"strconv"
)

// A Renderer renders the view registered under name with data.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// Responder maintains the pieces shared by every response an application sends:
// how views render, where downloads come from, and the charset advertised.
//
// Most oftentimes, a single Responder suffices for an application.
type Responder struct {
	charset  string
	files    Files
	renderer Renderer
}

// A ResponderOptFn configures a *Responder when constructing it.
type ResponderOptFn func(*Responder)

// WithCharset sets the charset each *Response advertises by default.
func WithCharset(charset string) ResponderOptFn {
	return func(rs *Responder) {
		if charset != "" {
			rs.charset = charset
		}
	}
}

// WithFiles sets where downloads are read from.
func WithFiles(f Files) ResponderOptFn {
	return func(rs *Responder) { rs.files = f }
}

// WithRenderer sets how views render.
func WithRenderer(r Renderer) ResponderOptFn {
	return func(rs *Responder) { rs.renderer = r }
}

// NewResponder constructs a *Responder using the ResponderOptFns passed in.
// Without WithFiles, downloads are read from the operating system's filesystem.
func NewResponder(opts ...ResponderOptFn) *Responder {
	rs := &Responder{charset: DefaultCharset, files: FSFiles{}}
	for _, opt := range opts {
		opt(rs)
	}

	return rs
}

// Make constructs a *Response advertising the *Responder's charset.
func (rs *Responder) Make(content any, opts ...Fn) *Response {
	return New(content, append([]Fn{Charset(rs.charset)}, opts...)...)
}

// View renders the view name with data into a *Response with status 200.
func (rs *Responder) View(name string, data any) (*Response, error) {
	if rs.renderer == nil {
		return nil, fmt.Errorf("%w: no renderer configured", ErrBadConfig)
	}

	content, err := rs.renderer.Render(name, data)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}

	return rs.Make(content), nil
}

// Error renders the view "error/<code>" with data into a *Response with status code.
func (rs *Responder) Error(code int, data any) (*Response, error) {
	r, err := rs.View("error/"+strconv.Itoa(code), data)
	if err != nil {
		return nil, err
	}

	return r.Status(code), nil
}

// Download constructs a *Response sending the file at fp as an attachment named name,
// or the base name of fp if name is empty.
// headers override the attachment headers Download sets.
func (rs *Responder) Download(fp, name string, headers map[string]string) (*Response, error) {
	if name == "" {
		name = path.Base(fp)
	}

	size, err := rs.files.Size(fp)
	if err != nil {
		return nil, err
	}

	content, err := rs.files.Get(fp)
	if err != nil {
		return nil, err
	}

	r := rs.Make(content, Headers(map[string]string{
		"Content-Description":       "File Transfer",
		"Content-Type":              rs.files.Mime(path.Ext(fp)),
		"Content-Disposition":       `attachment; filename="` + name + `"`,
		"Content-Transfer-Encoding": "binary",
		"Expires":                   "0",
		"Cache-Control":             "must-revalidate, post-check=0, pre-check=0",
		"Pragma":                    "public",
		"Content-Length":            strconv.FormatInt(size, 10),
	}), Headers(headers))

	return r, nil
}

// Status constructs an empty *Response with the status code.
func (rs *Responder) Status(code int) *Response {
	return rs.Make(nil, Code(code))
}

// Redirect constructs a *Response sending the client to url.
func (rs *Responder) Redirect(url string, code int) *Response {
	if code == 0 {
		code = http.StatusFound
	}

	return rs.Make(nil, Code(code), Headers(map[string]string{"Location": url}))
}
