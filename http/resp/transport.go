package resp

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"sort"
)

// A Transport carries a *Response to the client.
type Transport interface {
	http.ResponseWriter

	// HeadersSent reports whether the status line and headers have been written.
	HeadersSent() bool

	// Protocol names the protocol the status line is written in, e.g. "HTTP/1.1".
	Protocol() string

	// WriteStatus writes the status line, followed by the headers.
	WriteStatus(proto string, code int, reason string)
}

// HTTPTransport adapts an http.ResponseWriter, tracking whether headers went out.
//
// net/http writes its own status line, so the protocol and reason passed to WriteStatus
// are not sent.
type HTTPTransport struct {
	http.ResponseWriter
	proto   string
	status  int
	written bool
}

// NewHTTPTransport constructs an *HTTPTransport for a request made over proto.
func NewHTTPTransport(w http.ResponseWriter, proto string) *HTTPTransport {
	if proto == "" {
		proto = "HTTP/1.1"
	}

	return &HTTPTransport{ResponseWriter: w, proto: proto, status: http.StatusOK}
}

func (t *HTTPTransport) HeadersSent() bool { return t.written }

func (t *HTTPTransport) Protocol() string { return t.proto }

// Status returns the status code written, or 200 if none has been.
func (t *HTTPTransport) Status() int { return t.status }

func (t *HTTPTransport) WriteStatus(_ string, code int, _ string) { t.WriteHeader(code) }

// WriteHeader sends the status code once; later calls are dropped.
func (t *HTTPTransport) WriteHeader(code int) {
	if t.written {
		return
	}

	t.written = true
	t.status = code
	t.ResponseWriter.WriteHeader(code)
}

func (t *HTTPTransport) Write(b []byte) (int, error) {
	if !t.written {
		t.WriteHeader(http.StatusOK)
	}

	return t.ResponseWriter.Write(b)
}

// Unwrap returns the underlying http.ResponseWriter.
func (t *HTTPTransport) Unwrap() http.ResponseWriter { return t.ResponseWriter }

// StreamTransport writes a raw HTTP response, status line included, to an io.Writer.
// It suits CGI scripts run with non-parsed headers, and tests.
type StreamTransport struct {
	w       *bufio.Writer
	cgi     bool
	header  http.Header
	proto   string
	status  int
	written bool
	err     error
}

// NewStreamTransport constructs a *StreamTransport writing to w.
func NewStreamTransport(w io.Writer, proto string) *StreamTransport {
	if proto == "" {
		proto = "HTTP/1.1"
	}

	return &StreamTransport{
		w:      bufio.NewWriter(w),
		header: make(http.Header),
		proto:  proto,
	}
}

// NewCGITransport constructs a *StreamTransport writing a CGI response to w.
// The status goes out as a "Status" header in place of the status line.
func NewCGITransport(w io.Writer) *StreamTransport {
	t := NewStreamTransport(w, "")
	t.cgi = true

	return t
}

func (t *StreamTransport) Header() http.Header { return t.header }

func (t *StreamTransport) HeadersSent() bool { return t.written }

func (t *StreamTransport) Protocol() string { return t.proto }

// Status returns the status code written, or 0 if none has been.
func (t *StreamTransport) Status() int { return t.status }

// WriteStatus writes the status line and the headers, sorted by name.
// Only the first call writes anything.
func (t *StreamTransport) WriteStatus(proto string, code int, reason string) {
	if t.written {
		return
	}

	t.written = true
	t.status = code
	if t.cgi {
		t.printf("Status: %d %s\r\n", code, reason)
	} else {
		t.printf("%s %d %s\r\n", proto, code, reason)
	}

	names := make([]string, 0, len(t.header))
	for name := range t.header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, val := range t.header[name] {
			t.printf("%s: %s\r\n", name, val)
		}
	}

	t.printf("\r\n")
}

// WriteHeader implements http.ResponseWriter.
func (t *StreamTransport) WriteHeader(code int) {
	t.WriteStatus(t.proto, code, StatusText(code))
}

func (t *StreamTransport) Write(b []byte) (int, error) {
	if !t.written {
		t.WriteHeader(http.StatusOK)
	}

	if t.err != nil {
		return 0, t.err
	}

	return t.w.Write(b)
}

// Flush pushes buffered output to the underlying io.Writer.
func (t *StreamTransport) Flush() error {
	if t.err != nil {
		return t.err
	}

	return t.w.Flush()
}

func (t *StreamTransport) printf(format string, args ...any) {
	if t.err != nil {
		return
	}

	_, t.err = fmt.Fprintf(t.w, format, args...)
}
