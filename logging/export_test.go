package logging

import (
	"log/slog"
	"testing"

	"github.com/giygas/pedcalc-api/config"
)

// ResetForTest installs a logger for the duration of a test and restores the
// previous one on cleanup.
func ResetForTest(t testing.TB, logDir string, env config.Environment, level string, retentionWeeks int, maxFileSize int64) {
	t.Helper()
	previous := DefaultLoggingService
	previousDefault := slog.Default()

	DefaultLoggingService = newLoggingService(logDir, GetConsoleLogLevel(env, level, testing.Verbose()), retentionWeeks, maxFileSize)
	slog.SetDefault(DefaultLoggingService.Logger)

	t.Cleanup(func() {
		_ = DefaultLoggingService.Close()
		DefaultLoggingService = previous
		slog.SetDefault(previousDefault)
	})
}
