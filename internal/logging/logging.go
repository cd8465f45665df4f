// Package logging holds the operational logger shared by the compiler
// pipeline and the command line tool. Diagnostics about the compiled source
// (syntax errors and the like) go through internal/logger instead.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const EnvLogLevel = "SCRIBA_LOG_LEVEL"

var (
	mutex  sync.RWMutex
	logger = newLogger(os.Stderr, zerolog.WarnLevel)
)

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	if f, ok := w.(*os.File); ok && (f == os.Stderr || f == os.Stdout) {
		w = zerolog.ConsoleWriter{Out: f, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Logger returns the current process logger.
func Logger() zerolog.Logger {
	mutex.RLock()
	defer mutex.RUnlock()
	return logger
}

// For returns a child logger tagged with the given component name.
func For(component string) zerolog.Logger {
	l := Logger()
	return l.With().Str("component", component).Logger()
}

func SetOutput(w io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	logger = newLogger(w, logger.GetLevel())
}

func SetLevel(level zerolog.Level) {
	mutex.Lock()
	defer mutex.Unlock()
	logger = logger.Level(level)
}

// ParseLevel accepts zerolog level names ("debug", "warn", ...) plus the
// empty string, which maps to the default warning level.
func ParseLevel(text string) (zerolog.Level, error) {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return zerolog.WarnLevel, nil
	}
	return zerolog.ParseLevel(text)
}

// ConfigureFromEnv applies SCRIBA_LOG_LEVEL if it is set.
func ConfigureFromEnv() error {
	value, ok := os.LookupEnv(EnvLogLevel)
	if !ok {
		return nil
	}
	level, err := ParseLevel(value)
	if err != nil {
		return err
	}
	SetLevel(level)
	return nil
}
