// Package logging sets up the service's slog logger: text on the console,
// JSON in weekly rotating files.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/giygas/pedcalc-api/config"
)

type LoggingService struct {
	Logger *slog.Logger
	file   *RotatingLogger
}

// Close releases the rotating file, if any.
func (s *LoggingService) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

var DefaultLoggingService *LoggingService

// parseLogLevel maps LOG_LEVEL values to slog levels, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetConsoleLogLevel returns the console level for an environment. Tests stay
// quiet unless verbose and ignore LOG_LEVEL; elsewhere LOG_LEVEL wins over the
// environment default.
func GetConsoleLogLevel(env config.Environment, level string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}
	if level != "" {
		return parseLogLevel(level)
	}
	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetFileLogLevel is the level of the JSON file handler. Files keep
// everything.
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}

// newLoggingService builds the console and file handlers. If the log
// directory cannot be used it falls back to the console alone.
func newLoggingService(logDir string, consoleLevel slog.Level, retentionWeeks int, maxFileSize int64) *LoggingService {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: consoleLevel})

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory", "dir", logDir, "error", err)
		return &LoggingService{Logger: logger}
	}

	file := NewRotatingLoggerWithSizeLimit(logDir, retentionWeeks, maxFileSize)
	file.mu.Lock()
	err := file.open(getWeekKey(time.Now()))
	file.mu.Unlock()
	if err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to initialize rotating logger", "error", err)
		return &LoggingService{Logger: logger}
	}
	file.startCleanup(cleanupInterval)

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: GetFileLogLevel()})
	return &LoggingService{
		Logger: slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}),
		file:   file,
	}
}

// InitLogger installs a logger with four weeks of retention at info level.
func InitLogger(logDir string) {
	InitLoggerWithRetention(logDir, slog.LevelInfo, 4, defaultMaxFileSize)
}

// InitLoggerWithRetention replaces the global logger. The previous service,
// if any, is closed.
func InitLoggerWithRetention(logDir string, consoleLevel slog.Level, retentionWeeks int, maxFileSize int64) *LoggingService {
	previous := DefaultLoggingService
	DefaultLoggingService = newLoggingService(logDir, consoleLevel, retentionWeeks, maxFileSize)
	slog.SetDefault(DefaultLoggingService.Logger)
	if previous != nil {
		_ = previous.Close()
	}
	return DefaultLoggingService
}

func current() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.Default()
	}
	return DefaultLoggingService.Logger
}

func Info(msg string, args ...any)  { current().Info(msg, args...) }
func Warn(msg string, args ...any)  { current().Warn(msg, args...) }
func Error(msg string, args ...any) { current().Error(msg, args...) }
func Debug(msg string, args ...any) { current().Debug(msg, args...) }

// multiHandler fans records out to every handler that accepts the level.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Logger returns the service logger, or the slog default before InitLogger.
func Logger() *slog.Logger { return current() }
