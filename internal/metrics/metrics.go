package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prediction Metrics
var (
	// PredictionsTotal tracks predictions by image source and result
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total predictions by source (dataset/upload) and result (success/timeout/unreachable/api_error/bad_response/invalid_input)",
		},
		[]string{"source", "result"},
	)

	// PredictionDuration tracks end-to-end prediction duration in seconds
	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_duration_seconds",
			Help:    "End-to-end prediction duration in seconds (load, API call, assembly)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	// PredictionImageBytes tracks the size of submitted images
	PredictionImageBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prediction_image_bytes",
			Help:    "Size in bytes of images submitted for prediction",
			Buckets: prometheus.ExponentialBuckets(64*1024, 2, 8),
		},
	)
)

// Segmentation API Metrics
var (
	// APIRequestsTotal tracks outbound segmentation API requests by endpoint and status
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segmentation_api_requests_total",
			Help: "Total outbound segmentation API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	// APIRequestDuration tracks outbound segmentation API request latency
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "segmentation_api_request_duration_seconds",
			Help:    "Outbound segmentation API request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	// APIHealthUp reports the last health probe result (1=healthy, 0=unhealthy)
	APIHealthUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "segmentation_api_up",
			Help: "Result of the last segmentation API health probe (1=healthy, 0=unhealthy)",
		},
	)
)

// Dataset Metrics
var (
	// DatasetImages reports the number of dataset images currently listed
	DatasetImages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_images",
			Help: "Number of dataset images found in the configured directory",
		},
	)

	// DatasetReadErrors tracks local image read failures
	DatasetReadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_read_errors_total",
			Help: "Total local image read failures",
		},
	)
)

// Build Information Metrics
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, build_time, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "build_time", "go_version"},
	)
)

// HTTP Error Metrics
// Note: http_errors_total{type} is provided by internal/errors package
