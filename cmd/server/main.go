package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/app"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/config"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/dataset"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/logging"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/metrics"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/segmentation"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/server"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupHealthChecks(cfg *config.Config, client *segmentation.Client, data *dataset.Service) []server.HealthCheck {
	return []server.HealthCheck{
		{
			Name: "segmentation_api",
			Check: func(ctx context.Context) error {
				if !client.Health(ctx) {
					return fmt.Errorf("segmentation API unreachable at %s", cfg.APIBaseURL)
				}
				return nil
			},
		},
		{
			Name: "dataset",
			Check: func(ctx context.Context) error {
				if ok, problems := data.Validate(); !ok {
					return errors.New(strings.Join(problems, "; "))
				}
				return nil
			},
		},
	}
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	info := version.Get()
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.BuildTime, info.GoVersion).Set(1)

	client := segmentation.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, cfg.HealthCheckTimeout)
	data := dataset.NewService(cfg.OriginalImagesDir, cfg.GroundTruthDir)

	// Missing dataset directories surface on the page, not as a boot failure
	if ok, problems := data.Validate(); !ok {
		for _, problem := range problems {
			slog.Warn("Dataset problem", "problem", problem)
		}
	}

	appSvc := app.NewService(client, data, cfg.MaxFileSizeBytes(), clock)

	srv, err := server.NewServer(cfg, appSvc, setupHealthChecks(cfg, client, data))
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
