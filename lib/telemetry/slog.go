package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text logger. Verbose mode enables debug
// output, including the per-request logging of the HTTP client.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
