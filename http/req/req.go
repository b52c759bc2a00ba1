package req

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/fault"
	"github.com/xy-planning-network/trailhead/http/resp"
)

const (
	// Spoofer is the form field a POST request names the method it stands in for with.
	Spoofer = "__spoofer"

	// MaxBodyBytes bounds how much of a request body Build reads.
	MaxBodyBytes = 10 << 20
)

// A Context is the request as seen by the dispatch pipeline.
type Context struct {
	// Method is the effective method, after spoofing.
	Method string

	// Spoofed reports whether Method came from the Spoofer field.
	Spoofed bool

	// Input holds the values appropriate to Method.
	// Input never holds the Spoofer key.
	Input url.Values

	// Body is the raw request body.
	Body []byte

	Path     string
	Segments []string

	// Params are the variables matched out of the route's path.
	Params map[string]string

	RequestID string
	Location  *time.Location
	Session   *sessions.Session
	Faults    *fault.Unifier

	// Responder builds the responses a handler returns, e.g. rendered views.
	Responder *resp.Responder

	Request *http.Request
}

// Build reads r into a new *Context.
//
// Build consumes r.Body, replacing it with a reader over the same bytes.
func Build(r *http.Request) (*Context, error) {
	if r == nil || r.URL == nil {
		return nil, fmt.Errorf("%w: no request", trailhead.ErrMissingData)
	}

	body, err := readBody(r)
	if err != nil {
		return nil, err
	}

	post, err := postValues(r, body)
	if err != nil {
		return nil, err
	}

	c := &Context{
		Method:    strings.ToUpper(r.Method),
		Body:      body,
		Path:      r.URL.Path,
		Segments:  Segments(r.URL.Path),
		Params:    make(map[string]string),
		RequestID: trailhead.RequestIDFromContext(r.Context()),
		Location:  time.UTC,
		Request:   r,
	}

	if c.RequestID == "" {
		c.RequestID = uuid.NewString()
	}

	if c.Method == http.MethodPost && post.Has(Spoofer) {
		if m := strings.ToUpper(strings.TrimSpace(post.Get(Spoofer))); m != "" {
			c.Method = m
			c.Spoofed = true
		}
	}

	switch c.Method {
	case http.MethodGet:
		c.Input = r.URL.Query()
	case http.MethodPost:
		c.Input = post
	case http.MethodPut, http.MethodDelete:
		if c.Spoofed {
			c.Input = post
			break
		}

		c.Input = formValues(r.Header.Get("Content-Type"), body)
	default:
		c.Input = make(url.Values)
	}

	c.Input.Del(Spoofer)

	return c, nil
}

// Segments splits p into its non-empty, slash-separated parts.
func Segments(p string) []string {
	segs := []string{}
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}

	return segs
}

// Segment returns the nth path segment, if it exists.
func (c *Context) Segment(n int) (string, bool) {
	if n < 0 || n >= len(c.Segments) {
		return "", false
	}

	return c.Segments[n], true
}

// Get returns the first input value under key.
func (c *Context) Get(key string) string { return c.Input.Get(key) }

// Param returns the route parameter key.
func (c *Context) Param(key string) string { return c.Params[key] }

// Now returns the current time in the configured location.
func (c *Context) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}

	return time.Now().In(c.Location)
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	b, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return nil, fmt.Errorf("%w: body exceeds %d bytes", trailhead.ErrNotValid, tooLarge.Limit)
	case err != nil:
		return nil, fmt.Errorf("%w: cannot read body: %s", trailhead.ErrUnexpected, err)
	}
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(b))

	return b, nil
}

// postValues parses the form values a POST request carries in its body.
func postValues(r *http.Request, body []byte) (url.Values, error) {
	if strings.ToUpper(r.Method) != http.MethodPost {
		return make(url.Values), nil
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil {
			return nil, fmt.Errorf("%w: cannot parse multipart form: %s", trailhead.ErrBadFormat, err)
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		return cloneValues(r.PostForm), nil

	default:
		return formValues(ct, body), nil
	}
}

// formValues parses body as a URL-encoded form when ct names one or is empty.
// Malformed pairs are skipped; other content types yield no values,
// leaving the bytes to Context.Body.
func formValues(ct string, body []byte) url.Values {
	if strings.TrimSpace(ct) != "" {
		if mt, _, _ := mime.ParseMediaType(ct); mt != "application/x-www-form-urlencoded" {
			return make(url.Values)
		}
	}

	vals, _ := url.ParseQuery(string(body))

	return vals
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string{}, vals...)
	}

	return out
}
