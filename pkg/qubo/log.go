package qubo

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	loggerMu sync.RWMutex
	logger   = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// Logger returns the package-level logger used by SimpleSolver to report
// adaptive solver loop statistics; compilation and order reduction do not
// log. The default logger writes
// human-readable output to stderr at info level.
func Logger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replaces the package-level logger. Callers embedding this
// package in a larger service typically call this once at startup to
// redirect logging into their own structured sink.
func SetLogger(l zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}
