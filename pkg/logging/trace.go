package logging

import "log/slog"

// EnableTrace turns on per-tick navigation logs. Set from log.trace at Init.
var EnableTrace = false

// Trace logs at DEBUG level only when EnableTrace is set.
func Trace(logger *slog.Logger, msg string, args ...any) {
	if EnableTrace {
		logger.Debug(msg, args...)
	}
}
