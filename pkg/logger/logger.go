package logger

import (
	"fmt"
	"log"
	"log/slog"
	"os"
)

// New returns a *log.Logger for APIs that still expect one (http.Server.ErrorLog).
// With a base slog.Logger the lines are routed through it at error level; without
// one they go to stdout with a component prefix.
func New(component string, base *slog.Logger) *log.Logger {
	if base == nil {
		prefix := fmt.Sprintf("[%s] ", component)
		return log.New(os.Stdout, prefix, log.LstdFlags|log.Lshortfile)
	}
	return slog.NewLogLogger(base.With("component", component).Handler(), slog.LevelError)
}
