package logger

import (
	"log"
	"os"
	"path"
	"regexp"
	"runtime"

	"github.com/fatih/color"
)

const knownFrames = 2

var modulePathRegex = regexp.MustCompile("trailhead.*$")

// The Logger interface defines the levels a logging can occur at.
type Logger interface {
	Debug(msg string, ctx *LogContext)
	Error(msg string, ctx *LogContext)
	Fatal(msg string, ctx *LogContext)
	Info(msg string, ctx *LogContext)
	Warn(msg string, ctx *LogContext)

	LogLevel() LogLevel
}

// The SkipLogger interface defines a Logger that scrolls back
// the number of frames provided in order to ascertain the call site.
type SkipLogger interface {
	AddSkip(i int) SkipLogger
	Skip() int
	Logger
}

type LogLevel int

const (
	LogLevelUnk LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

var levelNames = map[LogLevel]string{
	LogLevelDebug: "[DEBUG]",
	LogLevelInfo:  "[INFO]",
	LogLevelWarn:  "[WARN]",
	LogLevelError: "[ERROR]",
	LogLevelFatal: "[FATAL]",
	LogLevelUnk:   "[UNK]",
}

// NewLogLevel parses val, e.g. "WARN", into a LogLevel.
// Unrecognized values produce LogLevelUnk.
func NewLogLevel(val string) LogLevel {
	switch val {
	case "DEBUG":
		return LogLevelDebug
	case "INFO":
		return LogLevelInfo
	case "WARN":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	case "FATAL":
		return LogLevelFatal
	default:
		return LogLevelUnk
	}
}

func (ll LogLevel) String() string { return levelNames[ll] }

// TrailheadLogger implements Logger using log.
type TrailheadLogger struct {
	skip int
	env  string
	l    *log.Logger
	ll   LogLevel
}

// New constructs a TrailheadLogger.
//
// Logs are printed to os.Stdout by default, using the std lib log pkg.
// The default environment is DEVELOPMENT.
// The default log level is INFO.
//
// When SENTRY_DSN is set, the TrailheadLogger is wrapped in a SentryLogger.
func New(opts ...LoggerOptFn) Logger {
	l := &TrailheadLogger{
		env: "DEVELOPMENT",
		l:   log.New(os.Stdout, "", log.LstdFlags),
		ll:  LogLevelInfo,
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		l.env = env
	}

	for _, opt := range opts {
		opt(l)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		l.Debug("SENTRY_DSN set, configuring SentryLogger", nil)
		return NewSentryLogger(l, dsn)
	}

	return l
}

// AddSkip replaces the current number of frames to scroll back
// when logging a message.
//
// Use Skip to get the current skip amount
// when needing to add to it with AddSkip.
func (l *TrailheadLogger) AddSkip(i int) SkipLogger {
	newl := *l
	newl.skip = i
	return &newl
}

// Debug writes a debug log.
func (l *TrailheadLogger) Debug(msg string, ctx *LogContext) {
	l.log(color.WhiteString, LogLevelDebug, msg, ctx)
}

// Error writes an error log.
func (l *TrailheadLogger) Error(msg string, ctx *LogContext) {
	l.log(color.RedString, LogLevelError, msg, ctx)
}

// Fatal writes a fatal log.
// Unlike log.Fatal, it does not exit the process.
func (l *TrailheadLogger) Fatal(msg string, ctx *LogContext) {
	l.log(color.MagentaString, LogLevelFatal, msg, ctx)
}

// Info writes an info log.
func (l *TrailheadLogger) Info(msg string, ctx *LogContext) {
	l.log(color.BlueString, LogLevelInfo, msg, ctx)
}

// Warn writes a warning log.
func (l *TrailheadLogger) Warn(msg string, ctx *LogContext) {
	l.log(color.YellowString, LogLevelWarn, msg, ctx)
}

// LogLevel returns the LogLevel set for the TrailheadLogger.
func (l *TrailheadLogger) LogLevel() LogLevel { return l.ll }

// Skip returns the current amount of frames to scroll back
// when logging a message.
func (l *TrailheadLogger) Skip() int { return l.skip }

// log prints the message at level, including the call site and
// any context if available. Messages below the configured level are dropped.
func (l *TrailheadLogger) log(colorizer func(string, ...any) string, level LogLevel, msg string, ctx *LogContext) {
	if l.ll > level {
		return
	}

	var site string
	if ctx != nil && ctx.Caller != "" {
		site = ctx.Caller
	} else {
		// NOTE: skip this method, the exported level method,
		// and however many frames the TrailheadLogger is configured with
		_, file, line, _ := runtime.Caller(knownFrames + l.skip)
		site = formatCaller(file, line)
	}

	msg = colorizer("%s %s '%s'", level, site, msg)
	if ctx == nil {
		l.l.Println(msg)
		return
	}

	l.l.Println(msg, "log_context:", ctx)
}

// immediateFilepath trims file down to its path within this module,
// or, outside of it, to the file and the directory it is in, e.g.:
//
//	/home/dev/my-project/main.go => my-project/main.go
//	/home/dev/my-project/internal/internal.go => internal/internal.go
func immediateFilepath(file string) string {
	if match := modulePathRegex.FindString(file); match != "" {
		return match
	}

	dir, name := path.Split(file)
	return path.Join(path.Base(dir), name)
}
