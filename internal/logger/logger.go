package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu    sync.RWMutex
	base  zerolog.Logger
	ready bool
)

// Options controls the global logger.
//
// Fields:
//   - Level: debug|info|warn|error (default: info).
//   - Pretty: human-readable console output instead of JSON.
//   - Out: destination writer (default: os.Stdout).
type Options struct {
	Level  string
	Pretty bool
	Out    io.Writer
}

// Init configures the global JSON logger. It is safe to call more than once;
// the last call wins.
func Init(opts Options) {
	var w io.Writer = os.Stdout
	if opts.Out != nil {
		w = opts.Out
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(w).With().Timestamp().Logger().Level(ParseLevel(opts.Level))

	mu.Lock()
	base = l
	ready = true
	mu.Unlock()
}

// L returns the global logger, initializing it with defaults on first use.
func L() *zerolog.Logger {
	mu.RLock()
	l, ok := base, ready
	mu.RUnlock()

	if !ok {
		Init(Options{})
		mu.RLock()
		l = base
		mu.RUnlock()
	}
	return &l
}

// Component returns a child logger tagged with component=name.
func Component(name string) *zerolog.Logger {
	l := L().With().Str("component", name).Logger()
	return &l
}

// ParseLevel maps a level name to a zerolog level; unknown names map to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
