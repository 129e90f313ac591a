package server

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/config"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/domain"
	apperrors "github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/errors"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/web"
)

// --- Mock implementations ---

type mockApp struct {
	checkEnvironmentFn func(ctx context.Context) domain.EnvironmentStatus
	availableImagesFn  func() []string
	sampleImagesFn     func(count int) []string
	imageInfoFn        func(imageID string) (*domain.ImageInfo, error)
	datasetStatsFn     func() domain.DatasetStats
	loadDatasetImageFn func(imageID string) (*domain.ImageData, error)
	loadGroundTruthFn  func(imageID string) (*domain.ImageData, error)
	predictDatasetFn   func(ctx context.Context, imageID string) (*domain.Comparison, error)
	predictUploadFn    func(ctx context.Context, filename string, data []byte) (*domain.Comparison, error)
}

func (m *mockApp) CheckEnvironment(ctx context.Context) domain.EnvironmentStatus {
	if m.checkEnvironmentFn != nil {
		return m.checkEnvironmentFn(ctx)
	}
	return domain.EnvironmentStatus{APIHealthy: true, DataReady: true}
}

func (m *mockApp) AvailableImages() []string {
	if m.availableImagesFn != nil {
		return m.availableImagesFn()
	}
	return []string{}
}

func (m *mockApp) SampleImages(count int) []string {
	if m.sampleImagesFn != nil {
		return m.sampleImagesFn(count)
	}
	return []string{}
}

func (m *mockApp) ImageInfo(imageID string) (*domain.ImageInfo, error) {
	if m.imageInfoFn != nil {
		return m.imageInfoFn(imageID)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, imageID)
}

func (m *mockApp) DatasetStats() domain.DatasetStats {
	if m.datasetStatsFn != nil {
		return m.datasetStatsFn()
	}
	return domain.DatasetStats{
		DirectoriesExist:  true,
		OriginalImagesDir: "leftImg8bit/val/frankfurt",
		GroundTruthDir:    "gtFine/val/frankfurt",
	}
}

func (m *mockApp) LoadDatasetImage(imageID string) (*domain.ImageData, error) {
	if m.loadDatasetImageFn != nil {
		return m.loadDatasetImageFn(imageID)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, imageID)
}

func (m *mockApp) LoadGroundTruth(imageID string) (*domain.ImageData, error) {
	if m.loadGroundTruthFn != nil {
		return m.loadGroundTruthFn(imageID)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, imageID)
}

func (m *mockApp) PredictDataset(ctx context.Context, imageID string) (*domain.Comparison, error) {
	if m.predictDatasetFn != nil {
		return m.predictDatasetFn(ctx, imageID)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, imageID)
}

func (m *mockApp) PredictUpload(ctx context.Context, filename string, data []byte) (*domain.Comparison, error) {
	if m.predictUploadFn != nil {
		return m.predictUploadFn(ctx, filename, data)
	}
	return nil, domain.ErrNotAnImage
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	require.NoError(t, err)

	e := echo.New()

	srv := &Server{
		echo: e,
		config: &config.Config{
			AppEnv:        "test",
			Port:          "8080",
			APIBaseURL:    "http://localhost:8000",
			MaxFileSizeMB: 10,
			AWSRegion:     "eu-west-3",
			DVCS3Bucket:   "frontend-semantic-image-segmentation",
		},
		app:       app,
		templates: templates,
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(handler)(c)
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
