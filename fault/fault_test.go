package fault_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead/fault"
	"github.com/xy-planning-network/trailhead/http/resp"
)

type renderFn func(name string, data any) (string, error)

func (fn renderFn) Render(name string, data any) (string, error) { return fn(name, data) }

type harness struct {
	buf      *bytes.Buffer
	t        *resp.StreamTransport
	records  []*fault.Record
	exits    []int
	rendered []string
}

func newHarness() *harness {
	h := &harness{buf: new(bytes.Buffer)}
	h.t = resp.NewStreamTransport(h.buf, "HTTP/1.1")
	return h
}

func (h *harness) pages() fault.Pages {
	return resp.NewResponder(resp.WithRenderer(renderFn(func(name string, _ any) (string, error) {
		h.rendered = append(h.rendered, name)
		return "<h1>rendered " + name + "</h1>", nil
	})))
}

func (h *harness) unifier(opts ...fault.Option) *fault.Unifier {
	base := []fault.Option{
		fault.WithPages(h.pages()),
		fault.WithReporter(func(rec *fault.Record) { h.records = append(h.records, rec) }),
		fault.WithExit(func(code int) { h.exits = append(h.exits, code) }),
	}

	return fault.NewUnifier(h.t, append(base, opts...)...)
}

func (h *harness) output(t *testing.T) string {
	require.Nil(t, h.t.Flush())
	return h.buf.String()
}

func TestRaiseIgnored(t *testing.T) {
	for _, code := range fault.DefaultIgnore {
		t.Run(code.String(), func(t *testing.T) {
			// Arrange
			h := newHarness()
			u := h.unifier()

			// Act
			d := u.Raise(code, "undefined index: name")

			// Assert
			require.Equal(t, fault.Ignored, d)
			require.Len(t, h.records, 1)
			require.Equal(t, code, h.records[0].Code)
			require.Contains(t, h.records[0].File, "fault_test.go")
			require.Empty(t, h.exits)
			require.Empty(t, h.output(t))
			require.False(t, u.Handled())
		})
	}
}

func TestRaiseIgnoredLoggingOff(t *testing.T) {
	// Arrange
	h := newHarness()
	u := h.unifier(fault.WithLogging(false))

	// Act
	d := u.Raise(fault.Notice, "quiet")

	// Assert
	require.Equal(t, fault.Ignored, d)
	require.Empty(t, h.records)
}

func TestRaiseResolved(t *testing.T) {
	// Arrange
	h := newHarness()
	u := h.unifier(fault.WithReporting(0))

	// Act
	d := u.Raise(fault.Error, "dropped")

	// Assert
	require.Equal(t, fault.Resolved, d)
	require.Empty(t, h.records)
	require.Empty(t, h.exits)
}

func TestRaiseFatal(t *testing.T) {
	// Arrange
	h := newHarness()
	u := h.unifier(fault.WithIgnore(fault.Notice))

	// Act
	d := u.RaiseAt(fault.Deprecated, "old api", "app/legacy.go", 12)

	// Assert
	require.Equal(t, fault.Fatal, d)
	require.Len(t, h.records, 1)
	require.Equal(t, "app/legacy.go", h.records[0].File)
	require.Equal(t, 12, h.records[0].Line)
	require.Equal(t, []int{fault.ExitFailure}, h.exits)
	require.Equal(t, []string{"error/500"}, h.rendered)
	require.True(t, u.Handled())
}

func TestRecoverDetail(t *testing.T) {
	// Arrange
	h := newHarness()
	u := h.unifier(fault.WithDetail(true), fault.WithExit(func(code int) { panic(fault.Exit{Code: code}) }))

	// Act
	code := fault.Guard(func() {
		defer u.Recover()
		panic("kaboom <b>")
	})

	// Assert
	require.Equal(t, fault.ExitFailure, code)
	out := h.output(t)
	require.True(t, strings.HasPrefix(out, "HTTP/1.1 500 Internal Server Error\r\n"))
	require.Contains(t, out, "Content-Type: text/plain; charset=UTF-8\r\n")
	require.Contains(t, out, "kaboom <b>")
	require.Regexp(t, `fault_test\.go on line \d+`, out)
	require.Contains(t, out, "Stack Trace:")
	require.Empty(t, h.rendered)
	require.Len(t, h.records, 1)
}

func TestHandleDetailLiteralMessage(t *testing.T) {
	// Arrange
	h := newHarness()
	u := h.unifier(fault.WithDetail(true))
	msg := `open "config/app.yaml": can't read`

	// Act
	u.Handle(errors.New(msg))

	// Assert
	out := h.output(t)
	require.Contains(t, out, msg)
	require.NotContains(t, out, "&#34;")
	require.Equal(t, []int{fault.ExitFailure}, h.exits)
}

func TestHandleGeneric(t *testing.T) {
	// Arrange
	h := newHarness()
	u := h.unifier(fault.WithDetail(false))
	err := fmt.Errorf("db password is hunter2")

	// Act
	u.Handle(err)

	// Assert
	out := h.output(t)
	require.Equal(t, "HTTP/1.1 500 Internal Server Error\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n<h1>rendered error/500</h1>", out)
	require.NotContains(t, out, "hunter2")
	require.NotContains(t, out, "on line")
	require.Len(t, h.records, 1)
	require.ErrorIs(t, h.records[0], err)
	require.Contains(t, h.records[0].File, "fault_test.go")
	require.Equal(t, []int{fault.ExitFailure}, h.exits)
}

func TestHandleNil(t *testing.T) {
	// Arrange
	h := newHarness()
	u := h.unifier()

	// Act
	u.Handle(nil)

	// Assert
	require.Empty(t, h.records)
	require.False(t, u.Handled())
}

func TestHandleFallbackPage(t *testing.T) {
	// Arrange
	h := newHarness()
	broken := resp.NewResponder(resp.WithRenderer(renderFn(func(string, any) (string, error) {
		return "", errors.New("missing view")
	})))
	u := h.unifier(fault.WithPages(broken))

	// Act
	u.Handle(errors.New("secret detail"))

	// Assert
	out := h.output(t)
	require.True(t, strings.HasSuffix(out, "\r\n\r\nInternal Server Error"))
	require.NotContains(t, out, "secret detail")
	require.Len(t, h.records, 2)
}

func TestTerminate(t *testing.T) {
	// Arrange
	h := newHarness()
	u := h.unifier()

	// Act
	u.Terminate()

	// Assert
	require.Empty(t, h.records)

	// Arrange
	u.Store(errors.New("out of memory"))

	// Act
	u.Terminate()

	// Assert
	require.Len(t, h.records, 1)
	require.Equal(t, "out of memory", h.records[0].Message)
	require.Equal(t, []int{fault.ExitFailure}, h.exits)

	// Act
	u.Store(errors.New("again"))
	u.Terminate()

	// Assert
	require.Len(t, h.records, 1)
}

func TestGuard(t *testing.T) {
	require.Equal(t, 0, fault.Guard(func() {}))
	require.Equal(t, 3, fault.Guard(func() { panic(fault.Exit{Code: 3}) }))
	require.PanicsWithValue(t, "other", func() { fault.Guard(func() { panic("other") }) })
}

func TestRecoverPassesExit(t *testing.T) {
	// Arrange
	h := newHarness()
	u := h.unifier()

	// Act
	code := fault.Guard(func() {
		defer u.Recover()
		panic(fault.Exit{Code: 4})
	})

	// Assert
	require.Equal(t, 4, code)
	require.Empty(t, h.records)
}

func TestFromPanic(t *testing.T) {
	// Arrange
	var rec *fault.Record
	func() {
		defer func() { rec = fault.FromPanic(recover()) }()
		idx := []int{1, 2, 3}
		n := len(idx) + 2
		_ = idx[n]
	}()

	// Assert
	require.Contains(t, rec.Message, "index out of range")
	require.Contains(t, rec.File, "fault_test.go")
	require.NotZero(t, rec.Line)
	require.Equal(t, fault.Error, rec.Code)
}

func TestRecordWrapping(t *testing.T) {
	// Arrange
	inner := fault.New(fault.UserWarning, "bad input")

	// Act
	rec := fault.FromError(fmt.Errorf("handling: %w", inner), 0)

	// Assert
	require.Same(t, inner, rec)
	require.Contains(t, rec.Location(), "fault_test.go on line ")

	// Arrange
	sentinel := errors.New("sentinel")

	// Act
	rec = fault.Errorf("wrapped: %w", sentinel)

	// Assert
	require.ErrorIs(t, rec, sentinel)
	require.Equal(t, "wrapped: sentinel", rec.Error())
}

func TestParseCode(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected fault.Code
		err      error
	}{
		{"notice", fault.Notice, nil},
		{" USER_DEPRECATED ", fault.UserDeprecated, nil},
		{"8192", fault.Deprecated, nil},
		{"loud", 0, fault.ErrNotValid},
	} {
		t.Run(tc.input, func(t *testing.T) {
			c, err := fault.ParseCode(tc.input)
			require.ErrorIs(t, err, tc.err)
			require.Equal(t, tc.expected, c)
		})
	}

	codes, err := fault.ParseCodes([]string{"notice", "2"})
	require.Nil(t, err)
	require.Equal(t, []fault.Code{fault.Notice, fault.Warning}, codes)
	require.Equal(t, "ignored", fault.Ignored.String())
}
