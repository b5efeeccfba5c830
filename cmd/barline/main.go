package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/barline-lab/barline/internal/core/config"
	"github.com/barline-lab/barline/internal/core/resample"
	"github.com/barline-lab/barline/internal/resampling"
	"github.com/barline-lab/barline/internal/server"
)

func main() {
	configPath := flag.String("config", "barline.yaml", "Path to configuration file")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Logger with the configured level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Logging.SlogLevel(),
	}))
	slog.SetDefault(logger)
	slog.Info("Loaded config",
		"preset_dir", cfg.PresetLoading.PresetDir,
		"preset_count", len(cfg.PresetLoading.Presets),
		"max_ticks_per_request", cfg.Resample.MaxTicksPerRequest,
	)

	// 3. Initialize Preset Repository
	presets, err := resample.NewFileSystemPresetRepository(cfg.PresetLoading.PresetDir)
	if err != nil {
		slog.Error("Failed to load presets", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Resampling Service
	svc := resampling.NewService(presets, cfg.Server.MaxBodySizeMB, cfg.Resample.MaxTicksPerRequest)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), cfg.Server.Mode)
	svc.RegisterRoutes(srv.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
