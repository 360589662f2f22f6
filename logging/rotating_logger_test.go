package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/giygas/pedcalc-api/config"
)

func currentLogFile(dir string) string {
	return filepath.Join(dir, filePrefix+getWeekKey(time.Now())+fileSuffix)
}

func logFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read log directory: %v", err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), fileSuffix) {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestGetWeekKey(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC), "2025-W41"},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W01"},
		{time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W53"},
	}

	for _, tt := range tests {
		if got := getWeekKey(tt.date); got != tt.expected {
			t.Errorf("Expected week key %s, got %s", tt.expected, got)
		}
	}
}

func TestRotatingLoggerWrite(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1)
	defer func() { _ = rl.Close() }()

	if _, err := rl.Write([]byte("dose computed\n")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	content, err := os.ReadFile(currentLogFile(dir))
	if err != nil {
		t.Fatalf("Expected weekly log file, got %v", err)
	}
	if !strings.Contains(string(content), "dose computed") {
		t.Errorf("Expected message in log file, got %q", string(content))
	}
}

func TestRotatingLoggerWeekChange(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1)
	defer func() { _ = rl.Close() }()

	rl.mu.Lock()
	err := rl.open("2025-W40")
	rl.mu.Unlock()
	if err != nil {
		t.Fatalf("Failed to open week 40: %v", err)
	}

	// The stale week forces a rotation on the next write.
	if _, err := rl.Write([]byte("new week")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "pedcalc-2025-W40.log")); err != nil {
		t.Errorf("Expected week 40 file to exist: %v", err)
	}
	if _, err := os.Stat(currentLogFile(dir)); err != nil {
		t.Errorf("Expected current week file to exist: %v", err)
	}
	if rl.currentWeek != getWeekKey(time.Now()) {
		t.Errorf("Expected current week %s, got %s", getWeekKey(time.Now()), rl.currentWeek)
	}
}

func TestRotatingLoggerSizeLimit(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLoggerWithSizeLimit(dir, 1, 100)
	defer func() { _ = rl.Close() }()

	if _, err := rl.Write([]byte("small message")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if _, err := rl.Write([]byte(strings.Repeat("x", 150))); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if _, err := rl.Write([]byte("third")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	week := getWeekKey(time.Now())
	names := logFiles(t, dir)
	expected := []string{
		filePrefix + week + fileSuffix,
		partName(week, 1),
		partName(week, 2),
	}
	if len(names) != len(expected) {
		t.Fatalf("Expected files %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Expected file %s, got %s", expected[i], names[i])
		}
	}
}

func TestRotatingLoggerExistingFiles(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected func(week string) string
	}{
		{"base file below limit is reused", 50, func(week string) string { return filePrefix + week + fileSuffix }},
		{"base file at limit starts a part", 100, func(week string) string { return partName(week, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			week := getWeekKey(time.Now())
			if err := os.WriteFile(filepath.Join(dir, filePrefix+week+fileSuffix), make([]byte, tt.size), 0o644); err != nil {
				t.Fatalf("Failed to seed log file: %v", err)
			}

			rl := NewRotatingLoggerWithSizeLimit(dir, 1, 100)
			defer func() { _ = rl.Close() }()
			if _, err := rl.Write([]byte("x")); err != nil {
				t.Fatalf("Failed to write: %v", err)
			}

			if got := filepath.Base(rl.currentFile.Name()); got != tt.expected(week) {
				t.Errorf("Expected %s, got %s", tt.expected(week), got)
			}
		})
	}
}

func TestRotatingLoggerInvalidDirectory(t *testing.T) {
	rl := NewRotatingLogger("/invalid/directory/that/does/not/exist", 1)

	if _, err := rl.Write([]byte("test")); err == nil {
		t.Error("Expected error when writing to an invalid directory, got nil")
	}
	if err := rl.Close(); err != nil {
		t.Errorf("Expected Close to succeed, got %v", err)
	}
}

func TestRotatingLoggerCloseTwice(t *testing.T) {
	rl := NewRotatingLogger(t.TempDir(), 1)
	rl.startCleanup(time.Hour)
	if _, err := rl.Write([]byte("x")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	if err := rl.Close(); err != nil {
		t.Errorf("Expected first Close to succeed, got %v", err)
	}
	if err := rl.Close(); err != nil {
		t.Errorf("Expected second Close to succeed, got %v", err)
	}
}

func TestRotatingLoggerConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLoggerWithSizeLimit(dir, 1, 4096)
	defer func() { _ = rl.Close() }()

	const writers, lines = 8, 100
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < lines; i++ {
				if _, err := fmt.Fprintf(rl, "writer %d line %d\n", w, i); err != nil {
					t.Errorf("Write failed: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for _, name := range logFiles(t, dir) {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		total += strings.Count(string(content), "\n")
	}
	if total != writers*lines {
		t.Errorf("Expected %d lines across files, got %d", writers*lines, total)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1)

	oldFile := filepath.Join(dir, "pedcalc-2025-W30.log")
	newFile := currentLogFile(dir)
	otherFile := filepath.Join(dir, "notes.txt")
	for _, f := range []string{oldFile, newFile, otherFile} {
		if err := os.WriteFile(f, []byte("content"), 0o644); err != nil {
			t.Fatalf("Failed to create %s: %v", f, err)
		}
	}
	threeWeeksAgo := time.Now().AddDate(0, 0, -21)
	for _, f := range []string{oldFile, otherFile} {
		if err := os.Chtimes(f, threeWeeksAgo, threeWeeksAgo); err != nil {
			t.Fatalf("Failed to age %s: %v", f, err)
		}
	}

	deleted, err := rl.cleanupOldLogs()
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted file, got %d", deleted)
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Errorf("Expected %s to be deleted", oldFile)
	}
	for _, f := range []string{newFile, otherFile} {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("Expected %s to be kept: %v", f, err)
		}
	}
}

func TestMultiHandler(t *testing.T) {
	var infoBuf, debugBuf strings.Builder
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}
	logger := slog.New(h).With("component", "dosing").WithGroup("dose")

	logger.Debug("debug only", "drug", "amoxicillin")
	logger.Info("both", "drug", "paracetamol")

	if strings.Contains(infoBuf.String(), "debug only") {
		t.Errorf("Expected info handler to skip debug, got %s", infoBuf.String())
	}
	if !strings.Contains(infoBuf.String(), "component=dosing") || !strings.Contains(infoBuf.String(), "dose.drug=paracetamol") {
		t.Errorf("Expected attrs and group on text handler, got %s", infoBuf.String())
	}
	if !strings.Contains(debugBuf.String(), "debug only") || !strings.Contains(debugBuf.String(), `"dose":{"drug":"paracetamol"}`) {
		t.Errorf("Expected both records on JSON handler, got %s", debugBuf.String())
	}
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug to be enabled through the JSON handler")
	}
}

func TestResetForTest(t *testing.T) {
	dir := t.TempDir()
	ResetForTest(t, dir, config.EnvTest, "", 2, 1024*1024)

	if DefaultLoggingService == nil || DefaultLoggingService.file == nil {
		t.Fatal("Expected a file backed logging service")
	}

	Info("reference data loaded", "drugs", 105)
	Debug("debug line")

	content, err := os.ReadFile(currentLogFile(dir))
	if err != nil {
		t.Fatalf("Expected log file, got %v", err)
	}
	if !strings.Contains(string(content), `"msg":"reference data loaded"`) {
		t.Errorf("Expected JSON record in file, got %s", string(content))
	}
	if !strings.Contains(string(content), "debug line") {
		t.Errorf("Expected debug record in file, got %s", string(content))
	}
}

func TestInitLoggerWithRetentionReplacesService(t *testing.T) {
	previous := DefaultLoggingService
	previousDefault := slog.Default()
	t.Cleanup(func() {
		_ = DefaultLoggingService.Close()
		DefaultLoggingService = previous
		slog.SetDefault(previousDefault)
	})

	first := InitLoggerWithRetention(t.TempDir(), slog.LevelError, 1, 1024*1024)
	second := InitLoggerWithRetention(t.TempDir(), slog.LevelError, 1, 1024*1024)

	if DefaultLoggingService != second {
		t.Error("Expected the second service to be installed")
	}
	if first.file.currentFile != nil {
		t.Error("Expected the replaced service to be closed")
	}
}

func TestPackageFunctionsWithoutService(t *testing.T) {
	previous := DefaultLoggingService
	DefaultLoggingService = nil
	t.Cleanup(func() { DefaultLoggingService = previous })

	// Must not panic without a configured service.
	Info("info")
	Warn("warn")
	Error("error")
	Debug("debug")
}
