package logger

import (
	"fmt"

	"github.com/getsentry/sentry-go"
)

// A SentryLogger decorates a SkipLogger, shipping warnings and errors
// carrying a LogContext.Error to Sentry.
type SentryLogger struct {
	l SkipLogger
}

// NewSentryLogger constructs a SentryLogger based off the provided TrailheadLogger.
// If Sentry cannot be initialized, the TrailheadLogger returns as is.
func NewSentryLogger(tl *TrailheadLogger, dsn string) Logger {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:          dsn,
		Environment:  tl.env,
		IgnoreErrors: []string{"write: broken pipe"},
	})
	if err != nil {
		err = fmt.Errorf("unable to init Sentry: %s", err)
		tl.Error(err.Error(), nil)
		return tl
	}

	return &SentryLogger{l: tl.AddSkip(1 + tl.Skip())}
}

// AddSkip replaces the current number of frames to scroll back
// when logging a message.
func (sl *SentryLogger) AddSkip(i int) SkipLogger {
	return &SentryLogger{l: sl.l.AddSkip(i)}
}

// Debug writes a debug log.
func (sl *SentryLogger) Debug(msg string, ctx *LogContext) { sl.l.Debug(msg, ctx) }

// Error writes an error log and sends it to Sentry.
func (sl *SentryLogger) Error(msg string, ctx *LogContext) {
	sl.capture(LogLevelError, sl.l.Error, msg, ctx)
}

// Fatal writes a fatal log and sends it to Sentry.
func (sl *SentryLogger) Fatal(msg string, ctx *LogContext) {
	sl.capture(LogLevelFatal, sl.l.Fatal, msg, ctx)
}

// Info writes an info log.
func (sl *SentryLogger) Info(msg string, ctx *LogContext) { sl.l.Info(msg, ctx) }

// Warn writes a warning log and sends it to Sentry.
func (sl *SentryLogger) Warn(msg string, ctx *LogContext) {
	sl.capture(LogLevelWarn, sl.l.Warn, msg, ctx)
}

// LogLevel returns the LogLevel set for the SentryLogger.
func (sl *SentryLogger) LogLevel() LogLevel { return sl.l.LogLevel() }

// Skip returns the current amount of frames to scroll back
// when logging a message.
func (sl *SentryLogger) Skip() int { return sl.l.Skip() }

var sentryLevels = map[LogLevel]sentry.Level{
	LogLevelWarn:  sentry.LevelWarning,
	LogLevelError: sentry.LevelError,
	LogLevelFatal: sentry.LevelFatal,
}

// capture logs msg with log, then ships it to Sentry, if level is logged at all.
func (sl *SentryLogger) capture(level LogLevel, log func(string, *LogContext), msg string, ctx *LogContext) {
	if sl.l.LogLevel() > level {
		return
	}

	log(msg, ctx)
	sl.send(sentryLevels[level], ctx)
}

// send ships the LogContext.Error to Sentry, tagged with the request id
// and the fault code, when the LogContext carries them.
func (sl *SentryLogger) send(level sentry.Level, ctx *LogContext) {
	if ctx == nil || ctx.Error == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		if ctx.Request != nil {
			scope.SetRequest(ctx.Request)
		}

		if ctx.RequestID != "" {
			scope.SetTag("request_id", ctx.RequestID)
		}

		if code, ok := ctx.Data["code"].(string); ok {
			scope.SetTag("fault_code", code)
		}

		if len(ctx.Data) > 0 {
			scope.SetExtra("data", ctx.Data)
		}

		sentry.CaptureException(ctx.Error)
	})
}
