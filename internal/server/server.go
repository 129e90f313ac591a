package server

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/config"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/domain"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/web"
)

type appService interface {
	CheckEnvironment(ctx context.Context) domain.EnvironmentStatus
	AvailableImages() []string
	SampleImages(count int) []string
	ImageInfo(imageID string) (*domain.ImageInfo, error)
	DatasetStats() domain.DatasetStats
	LoadDatasetImage(imageID string) (*domain.ImageData, error)
	LoadGroundTruth(imageID string) (*domain.ImageData, error)
	PredictDataset(ctx context.Context, imageID string) (*domain.Comparison, error)
	PredictUpload(ctx context.Context, filename string, data []byte) (*domain.Comparison, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app appService

	templates    *template.Template
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, healthChecks []HealthCheck) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		templates:    templates,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
