// Embedd is an HTTP service that generates text embeddings using local
// ONNX models via FastEmbed.
//
// The model is loaded eagerly at startup, before the server accepts
// connections, and reused for the process lifetime.
//
// Configuration is loaded from an optional YAML file and environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	embedd
//
//	# Configure via environment
//	EMBEDDING_MODEL=BAAI/bge-small-en-v1.5 SERVER_PORT=8080 embedd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/embedd/internal/config"
	"github.com/fyrsmithlabs/embedd/internal/embeddings"
	"github.com/fyrsmithlabs/embedd/internal/logging"
	"github.com/fyrsmithlabs/embedd/internal/server"
	"github.com/fyrsmithlabs/embedd/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  embedd           Start the embedding server\n")
			fmt.Fprintf(os.Stderr, "  embedd version   Show version information\n")
			os.Exit(1)
		}
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("embedd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the embedd server and blocks until context is cancelled.
//
// This function initializes all dependencies:
//  1. Loads and validates configuration
//  2. Initializes logger and telemetry
//  3. Creates the lazy embedder and preloads the model
//  4. Starts the HTTP server
//  5. Performs graceful shutdown on context cancellation
//
// Returns http.ErrServerClosed on graceful shutdown.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting embedd",
		zap.String("version", version),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("port", cfg.Server.Port))

	shutdownTelemetry, err := telemetry.InitProvider(ctx, telemetry.ProviderConfig{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		_ = shutdownTelemetry(context.Background())
	}()

	embedder, err := initEmbedder(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}
	defer func() {
		_ = embedder.Close()
	}()

	// Load the model before accepting connections so the first request
	// does not pay the load cost.
	if err := embedder.Preload(ctx); err != nil {
		return fmt.Errorf("failed to load embedding model: %w", err)
	}

	srv, err := server.NewServer(embedder, logger, &server.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		Model:     cfg.Embedding.Model,
		MaxTokens: cfg.Embedding.MaxLength,
	}, server.NewHTTPMetrics(logger))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if cfg.Observability.Metrics {
		srv.Echo().GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	logger.Info("Server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)),
		zap.Bool("metrics_enabled", cfg.Observability.Metrics))

	return srv.Start(ctx, cfg.Server.ShutdownTimeout.Duration())
}

// initEmbedder creates the lazy embedder around a FastEmbed factory.
func initEmbedder(cfg *config.Config, logger *zap.Logger) (*embeddings.Lazy, error) {
	dimension, ok := embeddings.ModelDimension(cfg.Embedding.Model)
	if !ok {
		return nil, fmt.Errorf("unsupported embedding model: %q", cfg.Embedding.Model)
	}

	factory := func() (embeddings.Provider, error) {
		return embeddings.NewFastEmbedProvider(embeddings.FastEmbedConfig{
			Model:     cfg.Embedding.Model,
			CacheDir:  cfg.Embedding.CacheDir,
			MaxLength: cfg.Embedding.MaxLength,
		})
	}

	return embeddings.NewLazy(factory, embeddings.LazyConfig{
		Model:     cfg.Embedding.Model,
		Dimension: dimension,
	}, logger, embeddings.NewMetrics(logger))
}
