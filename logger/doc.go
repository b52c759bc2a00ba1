/*
Package logger provides logging functionality to a trailhead app by defining the required behavior in [Logger]
and providing an implementation of it with [TrailheadLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
An implementation of Logger may be initialized at a certain [LogLevel]
and only emit messages at or above that level of importance.
For example, if [TrailheadLogger] is initialized with [LogLevelWarn],
only [*TrailheadLogger.Warn], [*TrailheadLogger.Error], and [*TrailheadLogger.Fatal] produce messages.

# TrailheadLogger

Log messages emitted by [TrailheadLogger] are composed of a few parts:
	- timestamp
	- log level
	- call site
	- message
	- log context

Here's an example:
	2024/04/28 15:55:21 [ERROR] views/home.tmpl:12 'undefined variable' log_context: {"request_id":"6f1c..."}

The call site is the file and line the log was written from,
unless [LogContext.Caller] overrides it,
as the fault handler does to point at where a fault was raised.

# SentryLogger

When SENTRY_DSN is set, [New] wraps the [TrailheadLogger] in a [SentryLogger]
which additionally ships [LogContext.Error] to Sentry for warnings and above.
*/
package logger
