package fault

import (
	"errors"
	"net/http"
	"runtime"

	"github.com/xy-planning-network/trailhead/http/resp"
)

// ExitFailure is the status an execution context ends with after an unrecovered fault.
const ExitFailure = 1

// Exit is the panic value the default exit function unwinds an execution context with.
// [Guard] recovers it.
type Exit struct {
	Code int
}

// A Disposition tags what became of a raised diagnostic.
type Disposition int

const (
	// Resolved diagnostics were dropped because reporting is switched off.
	Resolved Disposition = iota

	// Ignored diagnostics were logged and execution resumed.
	Ignored

	// Fatal diagnostics were escalated to the handler.
	Fatal
)

func (d Disposition) String() string {
	switch d {
	case Resolved:
		return "resolved"
	case Ignored:
		return "ignored"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// A Reporter receives every *Record the Unifier logs.
type Reporter func(*Record)

// Pages constructs the responses the Unifier sends.
type Pages interface {
	Error(code int, data any) (*resp.Response, error)
	Make(content any, opts ...resp.Fn) *resp.Response
}

// A Unifier funnels every fault in an execution context into one handler,
// which logs the fault, renders a response for it, and ends the execution context.
//
// A Unifier is not safe for concurrent use.
type Unifier struct {
	detail    bool
	exit      func(code int)
	handled   bool
	ignore    map[Code]bool
	last      error
	log       bool
	pages     Pages
	reporter  Reporter
	reporting Code
	transport resp.Transport
}

// An Option configures a *Unifier when constructing it.
type Option func(*Unifier)

// WithDetail toggles rendering the message, location, and stack trace of a fault to the client.
func WithDetail(on bool) Option {
	return func(u *Unifier) { u.detail = on }
}

// WithExit sets the function ending the execution context.
func WithExit(fn func(code int)) Option {
	return func(u *Unifier) { u.exit = fn }
}

// WithIgnore replaces the codes that are only logged.
func WithIgnore(codes ...Code) Option {
	return func(u *Unifier) {
		u.ignore = make(map[Code]bool, len(codes))
		for _, c := range codes {
			u.ignore[c] = true
		}
	}
}

// WithLogging toggles passing faults to the Reporter.
func WithLogging(on bool) Option {
	return func(u *Unifier) { u.log = on }
}

// WithPages sets how error responses are constructed.
func WithPages(p Pages) Option {
	return func(u *Unifier) { u.pages = p }
}

// WithReporter sets the Reporter faults are logged to.
func WithReporter(r Reporter) Option {
	return func(u *Unifier) { u.reporter = r }
}

// WithReporting sets the mask of diagnostic codes reported.
// A zero mask drops every diagnostic.
func WithReporting(mask Code) Option {
	return func(u *Unifier) { u.reporting = mask }
}

// NewUnifier constructs a *Unifier writing error responses to t.
//
// By default, a *Unifier logs faults, hides their detail, ignores DefaultIgnore,
// reports every code, and exits by panicking with Exit.
func NewUnifier(t resp.Transport, opts ...Option) *Unifier {
	u := &Unifier{
		exit:      func(code int) { panic(Exit{Code: code}) },
		log:       true,
		reporting: All,
		reporter:  func(*Record) {},
		transport: t,
	}
	WithIgnore(DefaultIgnore...)(u)

	for _, opt := range opts {
		opt(u)
	}

	if u.pages == nil {
		u.pages = resp.NewResponder()
	}

	return u
}

// Handled reports whether a fault has reached the handler.
func (u *Unifier) Handled() bool { return u.handled }

// Classify tags the outcome raising a diagnostic with code would have.
func (u *Unifier) Classify(code Code) Disposition {
	switch {
	case u.reporting == 0:
		return Resolved
	case u.ignore[code]:
		return Ignored
	default:
		return Fatal
	}
}

// Raise reports a diagnostic located at the caller of Raise.
// See RaiseAt.
func (u *Unifier) Raise(code Code, msg string) Disposition {
	_, file, line, _ := runtime.Caller(1)
	return u.RaiseAt(code, msg, file, line)
}

// RaiseAt reports a diagnostic located at file and line.
//
// Resolved diagnostics are dropped. Ignored diagnostics are logged once and RaiseAt returns.
// Fatal diagnostics go to the handler, which ends the execution context;
// RaiseAt only returns Fatal if the exit function returns.
func (u *Unifier) RaiseAt(code Code, msg, file string, line int) Disposition {
	d := u.Classify(code)
	if d == Resolved {
		return d
	}

	rec := New(code, msg)
	rec.File, rec.Line = file, line

	if d == Ignored {
		u.report(rec)
		return d
	}

	u.handle(rec)
	return d
}

// Handle sends err to the handler, which ends the execution context.
// A nil err is a no-op.
func (u *Unifier) Handle(err error) {
	if err == nil {
		return
	}

	u.handle(FromError(err, 1))
}

// Recover sends a panic to the handler. It must be deferred directly.
//
// An Exit panic passes through untouched.
func (u *Unifier) Recover() {
	v := recover()
	if v == nil {
		return
	}

	if e, ok := v.(Exit); ok {
		panic(e)
	}

	u.handle(FromPanic(v))
}

// Store records err as the last error seen in the execution context
// without handling it; Terminate handles it if nothing else was.
func (u *Unifier) Store(err error) {
	if err != nil {
		u.last = err
	}
}

// Terminate sends the last stored error to the handler
// unless a fault was already handled. It is meant to be deferred.
func (u *Unifier) Terminate() {
	if u.handled || u.last == nil {
		return
	}

	err := u.last
	u.last = nil
	u.handle(FromError(err, 1))
}

// handle logs rec, renders a response for it, and exits.
func (u *Unifier) handle(rec *Record) {
	u.handled = true
	u.report(rec)

	var r *resp.Response
	if u.detail {
		r = u.pages.Make(detailPage(rec), resp.Code(http.StatusInternalServerError), resp.MediaType("text/plain"))
	} else {
		r = u.genericPage()
	}

	if err := r.Send(u.transport); err != nil && !errors.Is(err, resp.ErrSent) {
		u.report(Errorf("sending fault response: %w", err))
	}

	u.exit(ExitFailure)
}

func (u *Unifier) report(rec *Record) {
	if u.log {
		u.reporter(rec)
	}
}

// genericPage renders the 500 view, falling back to its reason phrase.
// It never includes detail about the fault.
func (u *Unifier) genericPage() (r *resp.Response) {
	defer func() {
		if v := recover(); v != nil {
			r = u.fallbackPage()
		}
	}()

	r, err := u.pages.Error(http.StatusInternalServerError, nil)
	if err != nil {
		u.report(Errorf("rendering error page: %w", err))
		return u.fallbackPage()
	}

	return r
}

func (u *Unifier) fallbackPage() *resp.Response {
	return u.pages.Make(resp.StatusText(http.StatusInternalServerError), resp.Code(http.StatusInternalServerError))
}

// Guard runs fn, returning the code of any Exit unwinding it, or 0.
// Other panics propagate.
func Guard(fn func()) (code int) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		e, ok := v.(Exit)
		if !ok {
			panic(v)
		}

		code = e.Code
	}()

	fn()
	return 0
}
