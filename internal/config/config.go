package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8080"`

	APIBaseURL        string `env:"API_BASE_URL" default:"http://localhost:8000"`
	OriginalImagesDir string `env:"ORIGINAL_IMAGES_DIR" default:"leftImg8bit/val/frankfurt"`
	GroundTruthDir    string `env:"GROUND_TRUTH_DIR" default:"gtFine/val/frankfurt"`
	AWSRegion         string `env:"AWS_DEFAULT_REGION" default:"eu-west-3"`
	DVCS3Bucket       string `env:"DVC_S3_BUCKET" default:"frontend-semantic-image-segmentation"`

	MaxFileSizeMB      int           `env:"MAX_FILE_SIZE_MB" default:"10"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" default:"60s"`
	HealthCheckTimeout time.Duration `env:"HEALTH_CHECK_TIMEOUT" default:"10s"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"API_BASE_URL":        cfg.APIBaseURL,
		"ORIGINAL_IMAGES_DIR": cfg.OriginalImagesDir,
		"GROUND_TRUTH_DIR":    cfg.GroundTruthDir,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL must be a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must be an absolute http or https URL, got %q", cfg.APIBaseURL)
	}

	if cfg.MaxFileSizeMB < 1 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be at least 1, got %d", cfg.MaxFileSizeMB)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.HealthCheckTimeout <= 0 {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be positive, got %s", cfg.HealthCheckTimeout)
	}

	return nil
}

// APIURL joins the configured base URL with an endpoint path,
// normalizing slashes on both sides.
func (c *Config) APIURL(endpoint string) string {
	return strings.TrimRight(c.APIBaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// MaxFileSizeBytes returns the upload size cap in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}
