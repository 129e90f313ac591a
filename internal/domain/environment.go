package domain

// DatasetStats summarizes the configured data directories for the about panel
// and the JSON API.
type DatasetStats struct {
	DirectoriesExist    bool   `json:"directories_exist"`
	OriginalImagesDir   string `json:"original_images_dir"`
	OriginalImagesCount int    `json:"original_images_count"`
	GroundTruthDir      string `json:"ground_truth_dir"`
	GroundTruthCount    int    `json:"ground_truth_count"`
}

// EnvironmentStatus is the readiness snapshot rendered at the top of the
// index page: remote API health plus local data validation.
type EnvironmentStatus struct {
	APIHealthy   bool
	DataReady    bool
	DataProblems []string
}
