package fault

import (
	"github.com/xy-planning-network/trailhead/logger"
)

// LogReporter constructs a Reporter writing each *Record to l,
// tagged with the execution context's requestID.
// Notices and deprecations log as warnings; everything else as errors.
func LogReporter(l logger.Logger, requestID string) Reporter {
	return func(rec *Record) {
		ctx := &logger.LogContext{
			Caller: logger.FormatCaller(rec.File, rec.Line),
			Data: map[string]any{
				"code":  rec.Code.String(),
				"stack": rec.Stack,
			},
			Error:     rec,
			RequestID: requestID,
		}

		if rec.Code.Severe() {
			l.Error(rec.Message, ctx)
			return
		}

		l.Warn(rec.Message, ctx)
	}
}
