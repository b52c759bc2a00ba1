package resp

import (
	"fmt"
	"io"
	"net/http"
)

const (
	DefaultCharset   = "UTF-8"
	DefaultMediaType = "text/html"
)

// A Response is what a handler answers a request with.
//
// A Response is changed only through Header and Status, and only until it is sent.
type Response struct {
	charset   string
	code      int
	content   any
	headers   http.Header
	mediaType string
	sent      bool
}

// A Fn is a functional option that configures a *Response on construction.
type Fn func(*Response)

// Code sets the status code of the *Response.
func Code(code int) Fn {
	return func(r *Response) { r.code = code }
}

// Headers sets each header on the *Response.
func Headers(headers map[string]string) Fn {
	return func(r *Response) {
		for name, val := range headers {
			r.headers.Set(name, val)
		}
	}
}

// Charset sets the charset advertised by the default Content-Type.
func Charset(charset string) Fn {
	return func(r *Response) { r.charset = charset }
}

// MediaType sets the media type advertised by the default Content-Type.
func MediaType(mt string) Fn {
	return func(r *Response) { r.mediaType = mt }
}

// New constructs a *Response with status 200 and no headers before applying opts.
func New(content any, opts ...Fn) *Response {
	r := &Response{
		charset:   DefaultCharset,
		code:      http.StatusOK,
		content:   content,
		headers:   make(http.Header),
		mediaType: DefaultMediaType,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Content returns what the *Response sends as its body.
func (r *Response) Content() any { return r.content }

// StatusCode returns the status code of the *Response.
func (r *Response) StatusCode() int { return r.code }

// Headers returns a copy of the headers set on the *Response.
func (r *Response) Headers() http.Header { return r.headers.Clone() }

// Sent reports whether Send has been called.
func (r *Response) Sent() bool { return r.sent }

// Header sets the header name to val, replacing any previous value.
// Once sent, the *Response is left untouched.
func (r *Response) Header(name, val string) *Response {
	if !r.sent {
		r.headers.Set(name, val)
	}

	return r
}

// Status sets the status code.
// Once sent, the *Response is left untouched.
func (r *Response) Status(code int) *Response {
	if !r.sent {
		r.code = code
	}

	return r
}

// Send writes the *Response to t.
//
// If t has not sent headers yet, Send writes the status line and every header,
// defaulting Content-Type to the *Response's media type and charset.
// Otherwise it writes only the content.
//
// Send returns ErrSent if called more than once.
func (r *Response) Send(t Transport) error {
	if r.sent {
		return ErrSent
	}
	r.sent = true

	if !t.HeadersSent() {
		h := t.Header()
		for name, vals := range r.headers {
			h[name] = append([]string{}, vals...)
		}

		if h.Get("Content-Type") == "" {
			h.Set("Content-Type", r.mediaType+"; charset="+r.charset)
		}

		t.WriteStatus(t.Protocol(), r.code, StatusText(r.code))
	}

	return r.writeContent(t)
}

// writeContent writes the string form of the content to w.
func (r *Response) writeContent(w io.Writer) error {
	var err error
	switch c := r.content.(type) {
	case nil:
	case string:
		_, err = io.WriteString(w, c)
	case []byte:
		_, err = w.Write(c)
	case io.Reader:
		_, err = io.Copy(w, c)
		if closer, ok := c.(io.Closer); ok {
			closer.Close()
		}
	case fmt.Stringer:
		_, err = io.WriteString(w, c.String())
	default:
		_, err = fmt.Fprint(w, c)
	}

	if err != nil {
		return fmt.Errorf("writing content: %w", err)
	}

	return nil
}
