package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	_ "image/jpeg"
	_ "image/png"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/domain"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/metrics"
)

const healthProbeKey = "api-health"

// Service is the application layer. It is the only component that references
// both the dataset repository and the segmentation client, and it orchestrates
// every use case the UI exposes.
type Service struct {
	segmentation  domain.SegmentationService
	images        domain.ImageRepository
	maxImageBytes int64
	clock         clockwork.Clock
	healthGroup   singleflight.Group
}

// NewService creates the application layer service.
func NewService(segmentation domain.SegmentationService, images domain.ImageRepository, maxImageBytes int64, clock clockwork.Clock) *Service {
	return &Service{
		segmentation:  segmentation,
		images:        images,
		maxImageBytes: maxImageBytes,
		clock:         clock,
	}
}

// CheckEnvironment probes the segmentation API and validates the local data
// directories. Concurrent probes collapse into a single API call.
func (s *Service) CheckEnvironment(ctx context.Context) domain.EnvironmentStatus {
	healthy, _, _ := s.healthGroup.Do(healthProbeKey, func() (any, error) {
		return s.segmentation.Health(ctx), nil
	})

	dataReady, problems := s.images.Validate()

	return domain.EnvironmentStatus{
		APIHealthy:   healthy.(bool),
		DataReady:    dataReady,
		DataProblems: problems,
	}
}

// AvailableImages returns the sorted IDs of all dataset images.
func (s *Service) AvailableImages() []string {
	return s.images.ListImageIDs()
}

// SampleImages returns the first count dataset image IDs.
func (s *Service) SampleImages(count int) []string {
	return s.images.SampleImageIDs(count)
}

// ImageInfo returns metadata for one dataset image.
func (s *Service) ImageInfo(imageID string) (*domain.ImageInfo, error) {
	return s.images.ImageInfo(imageID)
}

// DatasetStats summarizes the configured data directories.
func (s *Service) DatasetStats() domain.DatasetStats {
	return s.images.Stats()
}

// LoadDatasetImage reads the original image for an ID.
func (s *Service) LoadDatasetImage(imageID string) (*domain.ImageData, error) {
	return s.images.LoadImage(s.images.ImagePath(imageID))
}

// LoadGroundTruth reads the ground-truth mask for an ID.
func (s *Service) LoadGroundTruth(imageID string) (*domain.ImageData, error) {
	return s.images.LoadImage(s.images.GroundTruthPath(imageID))
}

// PredictDataset runs a prediction for a dataset image and assembles the
// comparison: original, ground truth when present, and predicted mask.
func (s *Service) PredictDataset(ctx context.Context, imageID string) (*domain.Comparison, error) {
	original, err := s.images.LoadImage(s.images.ImagePath(imageID))
	if err != nil {
		return nil, err
	}

	var groundTruth *domain.ImageData
	if s.images.HasGroundTruth(imageID) {
		groundTruth, err = s.images.LoadImage(s.images.GroundTruthPath(imageID))
		if err != nil {
			slog.WarnContext(ctx, "Failed to load ground truth mask", "image_id", imageID, "error", err)
			groundTruth = nil
		}
	}

	filename := filepath.Base(s.images.ImagePath(imageID))
	return s.predict(ctx, domain.SourceDataset, imageID, filename, original, groundTruth)
}

// PredictUpload validates a user-supplied image and runs a prediction on it.
// Uploads have no ground truth to compare against.
func (s *Service) PredictUpload(ctx context.Context, filename string, data []byte) (*domain.Comparison, error) {
	name := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedExt, ext)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotAnImage, name)
	}

	original := &domain.ImageData{
		Bytes:  data,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}

	return s.predict(ctx, domain.SourceUpload, name, name, original, nil)
}

func (s *Service) predict(ctx context.Context, source domain.ComparisonSource, imageID, filename string, original *domain.ImageData, groundTruth *domain.ImageData) (*domain.Comparison, error) {
	fileSize := int64(len(original.Bytes))
	if fileSize > s.maxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrImageTooLarge, fileSize, s.maxImageBytes)
	}
	metrics.PredictionImageBytes.Observe(float64(fileSize))

	start := s.clock.Now()
	prediction, err := s.segmentation.Predict(ctx, original.Bytes, filename)
	elapsed := s.clock.Since(start)
	metrics.PredictionDuration.WithLabelValues(string(source)).Observe(elapsed.Seconds())
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues(string(source), "error").Inc()
		return nil, err
	}
	metrics.PredictionsTotal.WithLabelValues(string(source), "success").Inc()

	slog.InfoContext(ctx, "Prediction finished",
		"source", string(source),
		"image_id", imageID,
		"file_size", fileSize,
		"elapsed", elapsed.Round(time.Millisecond).String(),
	)

	return &domain.Comparison{
		RequestID:   uuid.NewString(),
		ImageID:     imageID,
		Source:      source,
		Original:    *original,
		GroundTruth: groundTruth,
		Prediction:  prediction,
		FileSize:    fileSize,
		Elapsed:     elapsed,
	}, nil
}
