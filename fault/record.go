package fault

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// A Record is the single shape every fault takes on its way to the handler,
// whether it began as a returned error, a panic, or a raised diagnostic.
type Record struct {
	Message string
	File    string
	Line    int
	Code    Code
	Stack   string

	// Err is the error the Record was made from, if any.
	Err error
}

// New constructs a *Record located at the caller of New.
func New(code Code, msg string) *Record {
	_, file, line, _ := runtime.Caller(1)
	return &Record{
		Message: msg,
		File:    file,
		Line:    line,
		Code:    code,
		Stack:   string(debug.Stack()),
	}
}

// Errorf constructs an Error-coded *Record located at the caller of Errorf.
// As with fmt.Errorf, %w wraps an error the Record unwraps to.
func Errorf(format string, args ...any) *Record {
	err := fmt.Errorf(format, args...)
	_, file, line, _ := runtime.Caller(1)
	return &Record{
		Message: err.Error(),
		File:    file,
		Line:    line,
		Code:    Error,
		Stack:   string(debug.Stack()),
		Err:     errors.Unwrap(err),
	}
}

func (r *Record) Error() string { return r.Message }

func (r *Record) Unwrap() error { return r.Err }

// Location formats where the fault occurred, e.g. "app/handlers.go on line 12".
func (r *Record) Location() string {
	return fmt.Sprintf("%s on line %d", r.File, r.Line)
}

// FromError returns the *Record err wraps, if any.
// Otherwise it makes one, located at the caller skip frames above FromError.
func FromError(err error, skip int) *Record {
	var rec *Record
	if errors.As(err, &rec) {
		return rec
	}

	_, file, line, _ := runtime.Caller(skip + 1)
	return &Record{
		Message: err.Error(),
		File:    file,
		Line:    line,
		Code:    Error,
		Stack:   string(debug.Stack()),
		Err:     err,
	}
}

// FromPanic converts a recovered value into a *Record.
// It must be called from the deferred function that recovered v
// so the panic site is still on the stack.
func FromPanic(v any) *Record {
	if rec, ok := v.(*Record); ok {
		return rec
	}

	rec := &Record{Code: Error, Stack: string(debug.Stack())}
	switch val := v.(type) {
	case error:
		rec.Message = val.Error()
		rec.Err = val
		var inner *Record
		if errors.As(val, &inner) {
			return inner
		}
	case string:
		rec.Message = val
	default:
		rec.Message = fmt.Sprint(val)
	}

	rec.File, rec.Line = panicSite()
	return rec
}

// panicSite walks the stack for the first frame outside the runtime
// after the panic began.
func panicSite() (string, int) {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var panicking bool
	for {
		f, more := frames.Next()
		switch {
		case f.Function == "runtime.gopanic":
			panicking = true
		case panicking && !isRuntime(f.Function):
			return f.File, f.Line
		}

		if !more {
			return "", 0
		}
	}
}

func isRuntime(fn string) bool {
	return strings.HasPrefix(fn, "runtime.") || strings.HasPrefix(fn, "internal/runtime/")
}
