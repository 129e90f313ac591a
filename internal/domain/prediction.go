package domain

import (
	"encoding/json"
	"time"
)

// ClassStat is the per-class coverage reported by the segmentation API in
// the x-image-stats header. The API sends either a full object per class
// ({"percentage": 45.2, "pixel_count": 1000}) or a bare percentage (45.2);
// UnmarshalJSON accepts both.
type ClassStat struct {
	Percentage float64 `json:"percentage"`
	PixelCount int64   `json:"pixel_count"`
}

func (s *ClassStat) UnmarshalJSON(data []byte) error {
	var percentage float64
	if err := json.Unmarshal(data, &percentage); err == nil {
		s.Percentage = percentage
		s.PixelCount = 0
		return nil
	}

	type plain ClassStat
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = ClassStat(p)
	return nil
}

// Prediction is the result of one segmentation API call.
type Prediction struct {
	Mask           ImageData
	Stats          map[string]ClassStat
	ProcessingTime string
}

// ComparisonSource tells where the submitted image came from.
type ComparisonSource string

const (
	SourceDataset ComparisonSource = "dataset"
	SourceUpload  ComparisonSource = "upload"
)

// Comparison holds everything produced by one prediction: the submitted
// image, the ground-truth mask when one exists, and the predicted mask.
// It corresponds to exactly one submitted image and is not retained
// anywhere after rendering.
type Comparison struct {
	RequestID   string
	ImageID     string
	Source      ComparisonSource
	Original    ImageData
	GroundTruth *ImageData
	Prediction  *Prediction
	FileSize    int64
	Elapsed     time.Duration
}
