package osal

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

type (
	// Logger is the structured logger accepted by [WithLogger].
	Logger = logiface.Logger[logiface.Event]
)

// for testing purposes
var (
	osExit = os.Exit

	// fallbackLogger is used by abort when no logger is configured, or
	// reachable, e.g. from GetSystem with no active system.
	fallbackLogger = newFallbackLogger(os.Stderr)
)

func newFallbackLogger(w io.Writer) *Logger {
	return stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(w))).Logger()
}

// abort terminates the process, it is reserved for build misconfiguration
// and startup ordering defects, which must not be continued past.
func abort(logger *Logger, reason string) {
	if logger == nil {
		logger = fallbackLogger
	}
	logger.Crit().
		Str(`reason`, reason).
		Log(`osal: fatal`)
	osExit(ExitFailure)
}
