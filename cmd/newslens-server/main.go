package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minwooahn/newslens/internal/app"
	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("NEWSLENS_CONFIG"), "path to config file")
	flag.Parse()

	common.LoadVersionFromFile()

	cfg, err := common.LoadConfig("config/newslens.toml", *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	common.PrintBanner(cfg)

	ctx := context.Background()
	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize app")
	}

	if err := a.StartScheduler(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	srv := server.NewServer(a)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)).
		Msg("Server ready")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	a.Close()
	logger.Info().Msg("Server stopped")
}
