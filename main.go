package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/pedcalc-api/config"
	"github.com/giygas/pedcalc-api/data"
	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/reference"
	"github.com/giygas/pedcalc-api/scheduler"
	"github.com/giygas/pedcalc-api/server"
	"github.com/giygas/pedcalc-api/validation"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load .env:", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}

	// Initialize slog for structured logging to console and file
	service := logging.InitLoggerWithRetention(
		cfg.LogDir,
		logging.GetConsoleLogLevel(cfg.Env, cfg.LogLevel, false),
		cfg.LogRetentionWeeks,
		cfg.MaxLogFileSize,
	)
	defer service.Close()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"address", cfg.Address,
		"port", cfg.Port,
		"reload_times", cfg.ReloadTimes)

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	loader := reference.NewLoader(cfg.ReferenceDataDir, cfg.FormularyTSVURL)
	sched := scheduler.NewScheduler(dataContainer, loader, validation.NewDataValidator(), cfg.ReloadTimes)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, dataContainer)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			logging.Error("Server failed to start", "error", err)
			sched.Stop()
			service.Close()
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
	}
}
