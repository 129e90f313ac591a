package domain

import "context"

// ImageData is a decoded image held in memory: the raw bytes plus the
// pixel dimensions and format reported by the decoder.
type ImageData struct {
	Bytes  []byte
	Width  int
	Height int
	Format string
}

// ImageInfo describes a dataset image and its optional ground-truth mask.
type ImageInfo struct {
	ID             string `json:"id"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Format         string `json:"format"`
	FileSize       int64  `json:"file_size"`
	HasGroundTruth bool   `json:"has_ground_truth"`

	GroundTruthWidth  int `json:"ground_truth_width,omitempty"`
	GroundTruthHeight int `json:"ground_truth_height,omitempty"`
}

// ImageRepository reads dataset images and ground-truth masks from local disk.
type ImageRepository interface {
	ListImageIDs() []string
	SampleImageIDs(count int) []string
	ImagePath(imageID string) string
	GroundTruthPath(imageID string) string
	LoadImage(path string) (*ImageData, error)
	HasGroundTruth(imageID string) bool
	Validate() (bool, []string)
	ImageInfo(imageID string) (*ImageInfo, error)
	Stats() DatasetStats
}

// SegmentationService sends images to the remote segmentation API.
type SegmentationService interface {
	Health(ctx context.Context) bool
	Predict(ctx context.Context, image []byte, filename string) (*Prediction, error)
}
