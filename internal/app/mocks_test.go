package app

import (
	"context"

	"github.com/Toufik-CHAARI/Front-Semantic-Image-Segmentation/internal/domain"
)

type mockSegmentation struct {
	healthFn  func(ctx context.Context) bool
	predictFn func(ctx context.Context, image []byte, filename string) (*domain.Prediction, error)
}

func (m *mockSegmentation) Health(ctx context.Context) bool {
	if m.healthFn != nil {
		return m.healthFn(ctx)
	}
	return true
}

func (m *mockSegmentation) Predict(ctx context.Context, image []byte, filename string) (*domain.Prediction, error) {
	if m.predictFn != nil {
		return m.predictFn(ctx, image, filename)
	}
	return &domain.Prediction{}, nil
}

type mockImages struct {
	listImageIDsFn    func() []string
	sampleImageIDsFn  func(count int) []string
	imagePathFn       func(imageID string) string
	groundTruthPathFn func(imageID string) string
	loadImageFn       func(path string) (*domain.ImageData, error)
	hasGroundTruthFn  func(imageID string) bool
	validateFn        func() (bool, []string)
	imageInfoFn       func(imageID string) (*domain.ImageInfo, error)
	statsFn           func() domain.DatasetStats
}

func (m *mockImages) ListImageIDs() []string {
	if m.listImageIDsFn != nil {
		return m.listImageIDsFn()
	}
	return []string{}
}

func (m *mockImages) SampleImageIDs(count int) []string {
	if m.sampleImageIDsFn != nil {
		return m.sampleImageIDsFn(count)
	}
	return []string{}
}

func (m *mockImages) ImagePath(imageID string) string {
	if m.imagePathFn != nil {
		return m.imagePathFn(imageID)
	}
	return "/data/images/" + imageID + "_leftImg8bit.png"
}

func (m *mockImages) GroundTruthPath(imageID string) string {
	if m.groundTruthPathFn != nil {
		return m.groundTruthPathFn(imageID)
	}
	return "/data/masks/" + imageID + "_gtFine_color.png"
}

func (m *mockImages) LoadImage(path string) (*domain.ImageData, error) {
	if m.loadImageFn != nil {
		return m.loadImageFn(path)
	}
	return &domain.ImageData{Bytes: []byte("img"), Width: 4, Height: 2, Format: "png"}, nil
}

func (m *mockImages) HasGroundTruth(imageID string) bool {
	if m.hasGroundTruthFn != nil {
		return m.hasGroundTruthFn(imageID)
	}
	return false
}

func (m *mockImages) Validate() (bool, []string) {
	if m.validateFn != nil {
		return m.validateFn()
	}
	return true, nil
}

func (m *mockImages) ImageInfo(imageID string) (*domain.ImageInfo, error) {
	if m.imageInfoFn != nil {
		return m.imageInfoFn(imageID)
	}
	return &domain.ImageInfo{ID: imageID}, nil
}

func (m *mockImages) Stats() domain.DatasetStats {
	if m.statsFn != nil {
		return m.statsFn()
	}
	return domain.DatasetStats{}
}
