package shared

import (
	"io"
	"log/slog"

	"github.com/LeDuyViet/quicktrace/internal/log"
)

// Logger builds the command logger from the environment. --verbose forces
// debug level.
func Logger(w io.Writer) *slog.Logger {
	cfg := log.FromEnv()
	cfg.Output = w
	if verboseFlag {
		cfg.Level = "debug"
	}
	return log.WithComponent(log.New(cfg), "cli")
}
