// Package logging configures the global slog logger. Everything goes to
// stderr: stdout belongs to the JSON-RPC wire and must stay clean.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level is the global atomic log level, adjustable at runtime.
var Level = new(slog.LevelVar) // default: INFO

// Setup installs the default logger: tint for colored output when stderr is
// a terminal, JSON otherwise (log collectors, CI).
func Setup() {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      Level,
			TimeFormat: time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: Level,
		})
	}
	slog.SetDefault(slog.New(handler))
}

// SetLevel changes the global log level from a string like "debug" or
// "warn". Unknown values are ignored.
func SetLevel(s string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err == nil {
		Level.Set(l)
	}
}
