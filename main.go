package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"winequality/config"
	qhttp "winequality/http"
	"winequality/logging"
	"winequality/ml"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. Load config
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open prediction pipeline
	pipeline, closePipeline, err := ml.OpenPipeline(ctx, cfg.Pipeline, logger)
	if err != nil {
		return fmt.Errorf("failed to open pipeline: %w", err)
	}
	defer closePipeline()
	logger.Info("Prediction pipeline ready", zap.String("kind", cfg.Pipeline.Kind))

	// 4. Start HTTP server
	server, err := qhttp.NewServer(qhttp.ServerConfig{
		Addr:             cfg.Addr(),
		ReadTimeout:      cfg.Http.ReadTimeout,
		WriteTimeout:     cfg.Http.WriteTimeout,
		MaxBodyBytes:     cfg.Http.MaxBodyBytes,
		PredictFormOnGet: cfg.Http.PredictFormOnGet,
	}, ml.NewPredictor(pipeline), logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 5. Handle graceful shutdown
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down...")
		if err := server.Stop(); err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
		}
	}

	logger.Info("Exiting")
	return nil
}

// loadConfig falls back to defaults when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(path)
}
