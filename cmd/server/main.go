package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crazytosser25/goit-web-hw-04/internal/config"
	"github.com/crazytosser25/goit-web-hw-04/internal/metrics"
	"github.com/crazytosser25/goit-web-hw-04/internal/relay"
	"github.com/crazytosser25/goit-web-hw-04/internal/server"
	"github.com/crazytosser25/goit-web-hw-04/internal/static"
	"github.com/crazytosser25/goit-web-hw-04/internal/storage"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "form-relay"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration; a missing file at the default path means the
	// original deployment's constants apply.
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.HTTPAddr()),
		slog.String("udp_address", cfg.UDPAddr()),
		slog.String("storage_path", cfg.Storage.Path),
		slog.String("static_dir", cfg.HTTP.StaticDir),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()

	// Storage writer: the UDP server is its only caller
	writer := storage.NewWriter(cfg.Storage.Path)

	// Initialize UDP server
	udpServer := server.NewUDPServer(&cfg.UDP, logger, writer, appMetrics)

	// Initialize the relay client and HTTP listener
	client := relay.NewClient(cfg.UDPAddr(), cfg.UDP.BufferSize, logger)
	provider := static.NewProvider(cfg.HTTP.StaticDir)
	httpServer := server.NewHTTPServer(&cfg.HTTP, logger, client, provider, udpServer, appMetrics)

	// Start UDP server first so the back end is ready before forms arrive
	if err := udpServer.Start(); err != nil {
		logger.Error("Failed to start UDP server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := httpServer.Start(); err != nil {
		logger.Error("Failed to start HTTP listener", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started successfully, waiting for signals...",
		slog.String("http_address", cfg.HTTPAddr()),
		slog.String("udp_address", cfg.UDPAddr()),
	)

	// Wait for shutdown signal; one shutdown per process lifetime
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down")
	}

	logger.Info("Starting graceful shutdown...")

	// Stop the HTTP listener first so no new submissions enter the pipeline
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP listener", slog.String("error", err.Error()))
	}

	// Then stop the UDP server
	if err := udpServer.Stop(); err != nil {
		logger.Error("Error stopping UDP server", slog.String("error", err.Error()))
	}

	stats := udpServer.Statistics()
	logger.Info("Final server statistics",
		slog.Uint64("datagrams_received", stats.DatagramsReceived),
		slog.Uint64("datagrams_stored", stats.DatagramsStored),
		slog.Uint64("decode_errors", stats.DecodeErrors),
		slog.Uint64("append_errors", stats.AppendErrors),
	)

	logger.Info("Server stopped.")
}

// loadConfig reads the config file, falling back to defaults when the file
// at the default path does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default fallback
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	// Determine output destination
	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
