package pipeline

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// logLevel controls the level of the default pipeline logger.
// Default is LevelInfo, which suppresses lifecycle Debug messages.
var logLevel = new(slog.LevelVar)

// loggerPtr stores the active logger. Backends and the reload watcher
// share it through Logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(defaultLogger())
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// SetVerbose enables or disables debug logging of lifecycle events
// (compile, link, activate, free).
// Call this from main() after parsing flags.
func SetVerbose(v bool) {
	if v {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}
}

// SetLogger replaces the logger used by the pipeline and its backends.
// Pass nil to restore the default stderr text logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = defaultLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger shared by the pipeline packages.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
