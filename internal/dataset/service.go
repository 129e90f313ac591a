package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/domain"
	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/metrics"
)

// Cityscapes naming: originals end in _leftImg8bit.png, color-coded
// ground-truth masks end in _gtFine_color.png. The shared prefix is the
// image ID.
const (
	imageSuffix       = "_leftImg8bit.png"
	groundTruthSuffix = "_gtFine_color.png"
)

// Service reads dataset images and ground-truth masks from local
// directories. It implements domain.ImageRepository.
type Service struct {
	imagesDir      string
	groundTruthDir string
}

// NewService creates a dataset service over the given directories.
func NewService(imagesDir, groundTruthDir string) *Service {
	return &Service{
		imagesDir:      imagesDir,
		groundTruthDir: groundTruthDir,
	}
}

// ListImageIDs returns the sorted IDs of all dataset images. An unreadable
// directory yields an empty list, never an error.
func (s *Service) ListImageIDs() []string {
	entries, err := os.ReadDir(s.imagesDir)
	if err != nil {
		metrics.DatasetReadErrors.Inc()
		return []string{}
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), imageSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), imageSuffix))
	}
	sort.Strings(ids)

	metrics.DatasetImages.Set(float64(len(ids)))
	return ids
}

// SampleImageIDs returns the first count image IDs in sorted order.
func (s *Service) SampleImageIDs(count int) []string {
	ids := s.ListImageIDs()
	if count < 0 {
		count = 0
	}
	if count > len(ids) {
		count = len(ids)
	}
	return ids[:count]
}

// ImagePath returns the path of the original image for an ID.
func (s *Service) ImagePath(imageID string) string {
	return filepath.Join(s.imagesDir, imageID+imageSuffix)
}

// GroundTruthPath returns the path of the ground-truth mask for an ID.
func (s *Service) GroundTruthPath(imageID string) string {
	return filepath.Join(s.groundTruthDir, imageID+groundTruthSuffix)
}

// LoadImage reads an image file and decodes its dimensions. A missing file
// maps to domain.ErrImageNotFound, an undecodable one to domain.ErrNotAnImage.
func (s *Service) LoadImage(path string) (*domain.ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotAnImage, filepath.Base(path))
	}

	return &domain.ImageData{
		Bytes:  data,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}

// HasGroundTruth reports whether a ground-truth mask exists for an ID.
func (s *Service) HasGroundTruth(imageID string) bool {
	_, err := os.Stat(s.GroundTruthPath(imageID))
	return err == nil
}

// Validate checks that both data directories exist and contain files. It
// returns ok with a list of human-readable problems.
func (s *Service) Validate() (bool, []string) {
	problems := []string{}

	if problem := validateDir(s.imagesDir, "Original images"); problem != "" {
		problems = append(problems, problem)
	}
	if problem := validateDir(s.groundTruthDir, "Ground truth"); problem != "" {
		problems = append(problems, problem)
	}

	return len(problems) == 0, problems
}

func validateDir(dir, label string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("%s directory not found: %s", label, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		return fmt.Sprintf("%s directory is empty: %s", label, dir)
	}
	return ""
}

// ImageInfo loads metadata for one image: dimensions, file size, and the
// ground-truth mask dimensions when a mask exists.
func (s *Service) ImageInfo(imageID string) (*domain.ImageInfo, error) {
	img, err := s.LoadImage(s.ImagePath(imageID))
	if err != nil {
		return nil, err
	}

	info := &domain.ImageInfo{
		ID:             imageID,
		Width:          img.Width,
		Height:         img.Height,
		Format:         img.Format,
		FileSize:       int64(len(img.Bytes)),
		HasGroundTruth: s.HasGroundTruth(imageID),
	}

	if info.HasGroundTruth {
		gt, err := s.LoadImage(s.GroundTruthPath(imageID))
		if err != nil {
			return nil, err
		}
		info.GroundTruthWidth = gt.Width
		info.GroundTruthHeight = gt.Height
	}

	return info, nil
}

// Stats summarizes both directories for the about panel and the JSON API.
// Counts cover every directory entry, matching what a quick ls would show.
func (s *Service) Stats() domain.DatasetStats {
	imagesExist := dirExists(s.imagesDir)
	groundTruthExists := dirExists(s.groundTruthDir)

	return domain.DatasetStats{
		DirectoriesExist:    imagesExist && groundTruthExists,
		OriginalImagesDir:   s.imagesDir,
		OriginalImagesCount: countEntries(s.imagesDir),
		GroundTruthDir:      s.groundTruthDir,
		GroundTruthCount:    countEntries(s.groundTruthDir),
	}
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func countEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	return len(entries)
}
